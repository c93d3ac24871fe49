// File: internal/wish/model.go
package wish

import (
	"net/http"
	"time"

	"github.com/RulerDevansh/SecretSanta/internal/common"

	"github.com/google/uuid"
)

// Wish is one member's submitted gift preferences for a group. At most one
// wish may exist per (group, user) pair; the composite unique index is the
// single source of truth for that rule, including under concurrent inserts.
//
// The chosen recipient is never stored here. Only the submitter is recorded;
// the recipient learns the content by email and is marked via the user's
// has_assigned_gift flag.
type Wish struct {
	common.BaseModel
	GroupID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishes_group_user" json:"group_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishes_group_user" json:"user_id"`
	DisplayName    string    `gorm:"type:varchar(120);not null" json:"display_name"`
	FavoriteColor  string    `gorm:"type:varchar(120);not null" json:"favorite_color"`
	FavoriteSnacks string    `gorm:"type:varchar(255);not null" json:"favorite_snacks"`
	Hobbies        string    `gorm:"type:varchar(255);not null" json:"hobbies"`
	ThingsLove     []string  `gorm:"serializer:json;type:text" json:"things_love"`
	ThingsNoNeed   []string  `gorm:"serializer:json;type:text" json:"things_no_need"`
	Delivered      bool      `gorm:"not null;default:false" json:"delivered"`
}

func (Wish) TableName() string {
	return "wishes"
}

// MaxListEntries bounds the two free-form list fields. Entries beyond the
// limit are dropped silently, not rejected.
const MaxListEntries = 3

// SubmitWishRequest is the submission payload. The required text fields are
// re-checked after trimming in the service, so whitespace-only input still
// fails validation.
type SubmitWishRequest struct {
	DisplayName    string   `json:"display_name" binding:"required,max=120"`
	FavoriteColor  string   `json:"favorite_color" binding:"required,max=120"`
	FavoriteSnacks string   `json:"favorite_snacks" binding:"required,max=255"`
	Hobbies        string   `json:"hobbies" binding:"required,max=255"`
	ThingsLove     []string `json:"things_love" binding:"omitempty,dive,max=255"`
	ThingsNoNeed   []string `json:"things_no_need" binding:"omitempty,dive,max=255"`
}

// StatusResponse reports submission state for the requesting member. A wish
// visible through this endpoint is always delivered; provisional rows exist
// only inside a running submission.
type StatusResponse struct {
	Submitted   bool       `json:"submitted"`
	Delivered   bool       `json:"delivered"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// SubmitResponse is returned after a successful submission.
type SubmitResponse struct {
	WishID      uuid.UUID `json:"wish_id"`
	GroupCode   string    `json:"group_code"`
	Delivered   bool      `json:"delivered"`
	SubmittedAt time.Time `json:"submitted_at"`
}

var (
	// ErrNotAMember is returned when the caller does not belong to the group.
	ErrNotAMember = common.NewAPIError(http.StatusForbidden, "NOT_A_MEMBER", "You are not a member of this group.")
	// ErrNotStarted is returned when the group's exchange has not been started.
	ErrNotStarted = common.NewAPIError(http.StatusBadRequest, "NOT_STARTED", "The gift exchange has not started for this group.")
	// ErrDuplicateSubmission is returned when a wish already exists for the
	// (group, user) pair, including when a concurrent insert won the race.
	ErrDuplicateSubmission = common.NewAPIError(http.StatusConflict, "DUPLICATE_SUBMISSION", "You have already submitted a wish for this group.")
	// ErrNoEligibleMembers is returned when the group has nobody to assign
	// besides the submitter.
	ErrNoEligibleMembers = common.NewAPIError(http.StatusUnprocessableEntity, "NO_ELIGIBLE_MEMBERS", "No other members are available to receive your wish.")
	// ErrDeliveryFailed is returned when the assignment email could not be
	// sent. The provisional wish is removed so the member can retry.
	ErrDeliveryFailed = common.NewAPIError(http.StatusBadGateway, "DELIVERY_FAILED", "Your wish could not be delivered. Please try again.")
)
