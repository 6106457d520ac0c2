package dto

import (
	"lifedashboard/model"
	"lifedashboard/services"
)

type JoinRequest struct {
	DisplayName string `json:"displayName"`
}

type LeaveRequest struct {
	Confirm    bool   `json:"confirm"`
	NewOwnerID string `json:"newOwnerId"`
}

type MemberProfileRequest struct {
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

type SharedProjectResponse struct {
	Project      model.SharedProject   `json:"project"`
	Issues       []services.IssueView  `json:"issues"`
	State        model.MembershipState `json:"state"`
	OtherMembers []model.Member        `json:"otherMembers"`
}

func NewSharedProjectResponse(p model.SharedProject, viewer string) SharedProjectResponse {
	p.Goals = sortedGoals(p.Goals)
	others := p.OtherMembers(viewer)
	if others == nil {
		others = []model.Member{}
	}
	return SharedProjectResponse{
		Project:      p,
		Issues:       services.ResolveIssues(p.Content),
		State:        p.StateOf(viewer),
		OtherMembers: others,
	}
}

type ShareLinkResponse struct {
	ProjectID string `json:"projectId"`
	URL       string `json:"url"`
	DeepLink  string `json:"deep_link"`
}
