package services

import (
	"lifedashboard/model"
)

const legacyNoDeadline = "期日なし"

var legacyIssueStatus = map[string]model.IssueStatus{
	"未対応": model.IssueUnstarted,
	"対応中": model.IssueInProgress,
	"完了":  model.IssueDone,
}

// NormalizeProject maps a raw private project record onto the canonical
// shape, filling defaults for every missing field.
func NormalizeProject(id string, data map[string]interface{}) model.Project {
	if data == nil {
		data = map[string]interface{}{}
	}
	return model.Project{
		ID:          id,
		Title:       toString(data["title"]),
		Description: toString(data["description"]),
		IsPrivate:   toBool(data["isPrivate"], true),
		Content: model.Content{
			Goals:  normalizeGoals(data["goals"]),
			Issues: normalizeIssues(data["issues"]),
		},
		Progress:              int(toNumber(data["progress"])),
		Deadline:              normalizeProjectDeadline(data["deadline"]),
		AllocatedHoursPerWeek: nonNegative(toNumber(data["allocatedHoursPerWeek"])),
		Routines:              normalizeRoutines(data["routines"]),
		CreatedAt:             toTime(data["createdAt"]),
		IsShared:              toBool(data["isShared"], false),
		SharedProjectID:       toString(data["sharedProjectId"]),
		OwnerUID:              toString(data["ownerUid"]),
	}
}

// NormalizeSharedProject maps a raw shareProjects record onto the canonical shape.
func NormalizeSharedProject(id string, data map[string]interface{}) model.SharedProject {
	if data == nil {
		data = map[string]interface{}{}
	}
	return model.SharedProject{
		ID:           id,
		Title:        toString(data["title"]),
		Description:  toString(data["description"]),
		IsPrivate:    toBool(data["isPrivate"], false),
		OwnerUID:     toString(data["ownerUid"]),
		Members:      normalizeMembers(data["members"]),
		MemberUIDs:   toStrings(data["memberUids"]),
		MemberEmails: toStrings(data["memberEmails"]),
		Content: model.Content{
			Goals:  normalizeGoals(data["goals"]),
			Issues: normalizeIssues(data["issues"]),
		},
		Progress:              int(toNumber(data["progress"])),
		Deadline:              normalizeProjectDeadline(data["deadline"]),
		AllocatedHoursPerWeek: nonNegative(toNumber(data["allocatedHoursPerWeek"])),
		CreatedAt:             toTime(data["createdAt"]),
	}
}

func NormalizeProfile(uid string, data map[string]interface{}) model.UserProfile {
	return model.UserProfile{
		UserID:      uid,
		DisplayName: toString(data["displayName"]),
		Nickname:    toString(data["nickname"]),
		PhotoURL:    toString(data["photoURL"]),
		CreatedAt:   toTime(data["createdAt"]),
	}
}

func normalizeGoals(v interface{}) []model.Goal {
	goals := []model.Goal{}
	for _, item := range toSlice(v) {
		m := toMap(item)
		if m == nil {
			continue
		}
		goals = append(goals, model.Goal{
			ID:       toString(m["id"]),
			Title:    toString(m["title"]),
			Deadline: NormalizeDeadline(toString(m["deadline"])),
			Tasks:    normalizeTasks(m["tasks"]),
		})
	}
	return goals
}

func normalizeTasks(v interface{}) []model.Task {
	tasks := []model.Task{}
	for _, item := range toSlice(v) {
		m := toMap(item)
		if m == nil {
			continue
		}
		tasks = append(tasks, model.Task{
			ID:          toString(m["id"]),
			Title:       toString(m["title"]),
			Done:        toBool(m["done"], false),
			Deadline:    NormalizeDeadline(toString(m["deadline"])),
			CompletedAt: toString(m["completedAt"]),
			Assignee:    toString(m["assignee"]),
		})
	}
	return tasks
}

func normalizeIssues(v interface{}) []model.Issue {
	issues := []model.Issue{}
	for _, item := range toSlice(v) {
		m := toMap(item)
		if m == nil {
			continue
		}
		issues = append(issues, model.Issue{
			ID:          toString(m["id"]),
			Title:       toString(m["title"]),
			Description: toString(m["description"]),
			Status:      NormalizeIssueStatus(toString(m["status"])),
			Assignee:    toString(m["assignee"]),
			Deadline:    NormalizeDeadline(toString(m["deadline"])),
			RelatedGoal: toString(m["relatedGoal"]),
		})
	}
	return issues
}

func normalizeRoutines(v interface{}) []model.Routine {
	routines := []model.Routine{}
	for _, item := range toSlice(v) {
		m := toMap(item)
		if m == nil {
			continue
		}
		routines = append(routines, model.Routine{
			ID:                 toString(m["id"]),
			Title:              toString(m["title"]),
			TargetHoursPerWeek: nonNegative(toNumber(m["targetHoursPerWeek"])),
			Memo:               toString(m["memo"]),
		})
	}
	return routines
}

func normalizeMembers(v interface{}) []model.Member {
	members := []model.Member{}
	for _, item := range toSlice(v) {
		m := toMap(item)
		if m == nil || toString(m["id"]) == "" {
			continue
		}
		members = append(members, model.Member{
			ID:        toString(m["id"]),
			Nickname:  toString(m["nickname"]),
			Name:      toString(m["name"]),
			AvatarURL: toString(m["avatarUrl"]),
		})
	}
	return members
}

// NormalizeDeadline maps empty and legacy placeholders onto model.NoDeadline.
func NormalizeDeadline(d string) string {
	if d == "" || d == legacyNoDeadline {
		return model.NoDeadline
	}
	return d
}

// Project deadlines are optional and stay empty when unset.
func normalizeProjectDeadline(v interface{}) string {
	d := toString(v)
	if d == legacyNoDeadline || d == model.NoDeadline {
		return ""
	}
	return d
}

// NormalizeIssueStatus maps legacy and unknown values onto the canonical set.
func NormalizeIssueStatus(s string) model.IssueStatus {
	if st, ok := legacyIssueStatus[s]; ok {
		return st
	}
	st := model.IssueStatus(s)
	if st.Valid() {
		return st
	}
	return model.IssueUnstarted
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
