package services

import (
	"time"

	"lifedashboard/model"
)

// Encoders turn the typed entities back into store documents. Optional
// fields are written as nil and dropped by Sanitize before the write.

func optional(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// optionalTime leaves a missing timestamp missing instead of writing the zero
// time.
func optionalTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func encodeContent(doc map[string]interface{}, c model.Content) {
	doc["goals"] = encodeGoals(c.Goals)
	doc["issues"] = encodeIssues(c.Issues)
}

func encodeProject(p model.Project) map[string]interface{} {
	doc := map[string]interface{}{
		"title":                 p.Title,
		"description":           p.Description,
		"isPrivate":             p.IsPrivate,
		"progress":              p.Progress,
		"deadline":              p.Deadline,
		"allocatedHoursPerWeek": p.AllocatedHoursPerWeek,
		"routines":              encodeRoutines(p.Routines),
		"createdAt":             optionalTime(p.CreatedAt),
		"isShared":              p.IsShared,
		"sharedProjectId":       optional(p.SharedProjectID),
		"ownerUid":              optional(p.OwnerUID),
	}
	encodeContent(doc, p.Content)
	return SanitizeDocument(doc)
}

func encodeSharedProject(p model.SharedProject) map[string]interface{} {
	doc := map[string]interface{}{
		"title":                 p.Title,
		"description":           p.Description,
		"isPrivate":             false,
		"ownerUid":              p.OwnerUID,
		"members":               encodeMembers(p.Members),
		"memberUids":            stringsToSlice(p.MemberUIDs),
		"memberEmails":          stringsToSlice(p.MemberEmails),
		"progress":              p.Progress,
		"deadline":              p.Deadline,
		"allocatedHoursPerWeek": p.AllocatedHoursPerWeek,
		"createdAt":             optionalTime(p.CreatedAt),
	}
	encodeContent(doc, p.Content)
	return SanitizeDocument(doc)
}

func encodeGoals(goals []model.Goal) []interface{} {
	out := make([]interface{}, 0, len(goals))
	for _, g := range goals {
		tasks := make([]interface{}, 0, len(g.Tasks))
		for _, t := range g.Tasks {
			var completedAt interface{}
			if t.Done {
				completedAt = optional(t.CompletedAt)
			}
			tasks = append(tasks, map[string]interface{}{
				"id":          t.ID,
				"title":       t.Title,
				"done":        t.Done,
				"deadline":    t.Deadline,
				"completedAt": completedAt,
				"assignee":    t.Assignee,
			})
		}
		out = append(out, map[string]interface{}{
			"id":       g.ID,
			"title":    g.Title,
			"deadline": g.Deadline,
			"tasks":    tasks,
		})
	}
	return out
}

func encodeIssues(issues []model.Issue) []interface{} {
	out := make([]interface{}, 0, len(issues))
	for _, i := range issues {
		out = append(out, map[string]interface{}{
			"id":          i.ID,
			"title":       i.Title,
			"description": i.Description,
			"status":      string(i.Status),
			"assignee":    i.Assignee,
			"deadline":    i.Deadline,
			"relatedGoal": optional(i.RelatedGoal),
		})
	}
	return out
}

func encodeRoutines(routines []model.Routine) []interface{} {
	out := make([]interface{}, 0, len(routines))
	for _, r := range routines {
		out = append(out, map[string]interface{}{
			"id":                 r.ID,
			"title":              r.Title,
			"targetHoursPerWeek": r.TargetHoursPerWeek,
			"memo":               optional(r.Memo),
		})
	}
	return out
}

func encodeMembers(members []model.Member) []interface{} {
	out := make([]interface{}, 0, len(members))
	for _, m := range members {
		out = append(out, map[string]interface{}{
			"id":        m.ID,
			"nickname":  optional(m.Nickname),
			"name":      optional(m.Name),
			"avatarUrl": optional(m.AvatarURL),
		})
	}
	return out
}
