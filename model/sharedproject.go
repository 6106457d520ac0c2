package model

import "time"

type Member struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Label is the display name of the member, nickname first.
func (m Member) Label() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	if m.Name != "" {
		return m.Name
	}
	return "unnamed"
}

type SharedProject struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	IsPrivate    bool     `json:"isPrivate"`
	OwnerUID     string   `json:"ownerUid"`
	Members      []Member `json:"members"`
	MemberUIDs   []string `json:"memberUids"`
	MemberEmails []string `json:"memberEmails"`
	Content
	Progress              int       `json:"progress"`
	Deadline              string    `json:"deadline"`
	AllocatedHoursPerWeek float64   `json:"allocatedHoursPerWeek"`
	CreatedAt             time.Time `json:"createdAt"`
}

// MembershipState is the relation of one user to a shared project.
type MembershipState string

const (
	NotMember MembershipState = "NotMember"
	IsMember  MembershipState = "Member"
	IsOwner   MembershipState = "Owner"
)

func (p SharedProject) HasMember(uid string) bool {
	for _, m := range p.Members {
		if m.ID == uid {
			return true
		}
	}
	return false
}

func (p SharedProject) Member(uid string) (Member, bool) {
	for _, m := range p.Members {
		if m.ID == uid {
			return m, true
		}
	}
	return Member{}, false
}

// StateOf reports the membership state of uid. Membership is decided by the
// members list; ownership additionally requires ownerUid to match.
func (p SharedProject) StateOf(uid string) MembershipState {
	if uid == "" || !p.HasMember(uid) {
		return NotMember
	}
	if p.OwnerUID == uid {
		return IsOwner
	}
	return IsMember
}

// OtherMembers returns every member except uid, in stored order.
func (p SharedProject) OtherMembers(uid string) []Member {
	others := make([]Member, 0, len(p.Members))
	for _, m := range p.Members {
		if m.ID != uid {
			others = append(others, m)
		}
	}
	return others
}
