// File: internal/group/model.go
package group

import (
	"context"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/user"

	"github.com/google/uuid"
)

// JoinCodeLength is the length of the shareable group code.
const JoinCodeLength = 6

// Group represents a Secret Santa group in the database.
type Group struct {
	common.BaseModel             // Embeds ID, CreatedAt, UpdatedAt
	Title            string      `gorm:"type:varchar(120);not null"`
	Code             string      `gorm:"type:varchar(6);not null;uniqueIndex"`
	HostID           uuid.UUID   `gorm:"type:uuid;not null;index"`
	HasStarted       bool        `gorm:"not null;default:false"` // Monotonic: never reset once true
	Members          []user.User `gorm:"many2many:group_members"`
}

// TableName specifies the table name for the Group model.
func (Group) TableName() string {
	return "groups"
}

// IsMember reports whether the given user belongs to the group.
// Members must be loaded.
func (g *Group) IsMember(userID uuid.UUID) bool {
	for i := range g.Members {
		if g.Members[i].ID == userID {
			return true
		}
	}
	return false
}

// MemberWishStatus is the per-member wish progress shown on the group page.
type MemberWishStatus struct {
	Submitted bool
	Delivered bool
}

// WishStore is the slice of wish persistence the group module depends on.
// The wish package implements it; keeping the interface here avoids an
// import cycle between the two feature packages.
type WishStore interface {
	StatusesByGroup(ctx context.Context, groupID uuid.UUID) (map[uuid.UUID]MemberWishStatus, error)
	DeleteByGroup(ctx context.Context, groupID uuid.UUID) error
	DeleteByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) error
}

// --- DTOs ---

// CreateGroupRequest is the payload for creating a group.
type CreateGroupRequest struct {
	Title string `json:"title" binding:"required,max=120"`
}

// JoinGroupRequest is the payload for joining a group by code.
type JoinGroupRequest struct {
	Code string `json:"code" binding:"required,len=6,alphanum"`
}

// MemberResponse is one group member as shown to other members.
type MemberResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	HasAssignedGift bool      `json:"has_assigned_gift"`
	WishSubmitted   bool      `json:"wish_submitted"`
	WishDelivered   bool      `json:"wish_delivered"`
}

// GroupResponse is the full group view returned to members.
type GroupResponse struct {
	ID         uuid.UUID        `json:"id"`
	Title      string           `json:"title"`
	Code       string           `json:"code"`
	HasStarted bool             `json:"has_started"`
	Host       uuid.UUID        `json:"host"`
	Members    []MemberResponse `json:"members"`
}

// GroupSummary is the compact listing used on the dashboard.
type GroupSummary struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Code       string    `json:"code"`
	HasStarted bool      `json:"has_started"`
	Host       uuid.UUID `json:"host"`
}

// ToGroupResponse builds the member-facing view, folding in wish status.
func ToGroupResponse(g *Group, statuses map[uuid.UUID]MemberWishStatus) *GroupResponse {
	members := make([]MemberResponse, 0, len(g.Members))
	for i := range g.Members {
		m := &g.Members[i]
		status := statuses[m.ID]
		members = append(members, MemberResponse{
			ID:              m.ID,
			Name:            m.Name,
			Email:           m.Email,
			HasAssignedGift: m.HasAssignedGift,
			WishSubmitted:   status.Submitted,
			WishDelivered:   status.Delivered,
		})
	}
	return &GroupResponse{
		ID:         g.ID,
		Title:      g.Title,
		Code:       g.Code,
		HasStarted: g.HasStarted,
		Host:       g.HostID,
		Members:    members,
	}
}

// ToGroupSummary builds the compact listing entry.
func ToGroupSummary(g *Group) GroupSummary {
	return GroupSummary{
		ID:         g.ID,
		Title:      g.Title,
		Code:       g.Code,
		HasStarted: g.HasStarted,
		Host:       g.HostID,
	}
}
