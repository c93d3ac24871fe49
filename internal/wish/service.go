// File: internal/wish/service.go
package wish

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/group"
	"github.com/RulerDevansh/SecretSanta/internal/mailer"
	"github.com/RulerDevansh/SecretSanta/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrGroupNotFound is returned when the join code resolves to no group.
var ErrGroupNotFound = common.NewAPIError(http.StatusNotFound, "GROUP_NOT_FOUND", "Group not found.")

// Service runs the wish submission workflow and answers status queries.
type Service interface {
	Submit(ctx context.Context, groupCode string, userID uuid.UUID, req SubmitWishRequest) (*SubmitResponse, error)
	Status(ctx context.Context, groupCode string, userID uuid.UUID) (*StatusResponse, error)
}

type service struct {
	repo   Repository
	groups group.Repository
	users  user.Repository
	mail   mailer.Mailer
	rng    RandomSource
	logger *zap.Logger
}

// NewService creates the wish service.
func NewService(repo Repository, groups group.Repository, users user.Repository, mail mailer.Mailer, rng RandomSource, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		groups: groups,
		users:  users,
		mail:   mail,
		rng:    rng,
		logger: logger.Named("WishService"),
	}
}

// Submit runs the full submission workflow:
//
//  1. validate preconditions (group exists, caller is a member, exchange
//     started, fields non-empty after trimming)
//  2. persist a provisional wish with delivered = false
//  3. pick a recipient among the other members
//  4. email the wishlist to the recipient
//  5. mark the wish delivered and the recipient assigned
//
// Steps 3 and 4 delete the provisional wish on failure before returning, so
// a failed submission leaves no row behind and the member can simply retry.
// The unique index on (group, user) is what rejects concurrent duplicates;
// the explicit lookup beforehand only produces a friendlier early error.
func (s *service) Submit(ctx context.Context, groupCode string, userID uuid.UUID, req SubmitWishRequest) (*SubmitResponse, error) {
	grp, submitter, err := s.resolveMember(ctx, groupCode, userID)
	if err != nil {
		return nil, err
	}
	if !grp.HasStarted {
		return nil, ErrNotStarted
	}

	if _, err := s.repo.FindByGroupAndUser(ctx, grp.ID, userID); err == nil {
		return nil, ErrDuplicateSubmission
	} else if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Failed to check for existing wish", zap.String("groupCode", grp.Code), zap.Error(err))
		return nil, common.ErrInternalServer
	}

	w, err := s.buildWish(grp.ID, userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, w); err != nil {
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		s.logger.Error("Failed to persist wish", zap.String("groupCode", grp.Code), zap.Error(err))
		return nil, common.ErrInternalServer
	}

	recipient, err := SelectRecipient(grp.Members, userID, s.rng)
	if err != nil {
		s.rollback(ctx, w.ID, grp.Code, "no eligible members")
		return nil, err
	}

	if err := s.deliver(ctx, grp, submitter, recipient, w); err != nil {
		s.rollback(ctx, w.ID, grp.Code, "delivery failed")
		s.logger.Warn("Wish delivery failed",
			zap.String("groupCode", grp.Code),
			zap.String("recipientID", recipient.ID.String()),
			zap.Error(err),
		)
		return nil, ErrDeliveryFailed
	}

	// The email is out; from here on the row must not be deleted or the
	// member could resubmit and trigger a second delivery.
	if err := s.repo.MarkDelivered(ctx, w.ID); err != nil {
		s.logger.Error("Failed to finalize delivered wish",
			zap.String("wishID", w.ID.String()),
			zap.String("groupCode", grp.Code),
			zap.Error(err),
		)
		return nil, common.ErrInternalServer
	}

	updated, err := s.users.MarkGiftAssigned(ctx, recipient.ID)
	if err != nil {
		// The wish is delivered either way; a stale flag only skews future
		// draws toward this member.
		s.logger.Error("Failed to mark recipient as assigned",
			zap.String("recipientID", recipient.ID.String()),
			zap.Error(err),
		)
	} else if !updated {
		s.logger.Debug("Recipient was already marked as assigned",
			zap.String("recipientID", recipient.ID.String()),
		)
	}

	s.logger.Info("Wish submitted and delivered",
		zap.String("groupCode", grp.Code),
		zap.String("wishID", w.ID.String()),
	)

	return &SubmitResponse{
		WishID:      w.ID,
		GroupCode:   grp.Code,
		Delivered:   true,
		SubmittedAt: w.CreatedAt,
	}, nil
}

// Status reports whether the caller has a wish on record for the group.
func (s *service) Status(ctx context.Context, groupCode string, userID uuid.UUID) (*StatusResponse, error) {
	grp, _, err := s.resolveMember(ctx, groupCode, userID)
	if err != nil {
		return nil, err
	}

	w, err := s.repo.FindByGroupAndUser(ctx, grp.ID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &StatusResponse{Submitted: false}, nil
		}
		s.logger.Error("Failed to look up wish status", zap.String("groupCode", grp.Code), zap.Error(err))
		return nil, common.ErrInternalServer
	}

	submittedAt := w.CreatedAt
	return &StatusResponse{Submitted: true, Delivered: w.Delivered, SubmittedAt: &submittedAt}, nil
}

// resolveMember loads the group and verifies membership, returning the
// caller's member record with it.
func (s *service) resolveMember(ctx context.Context, groupCode string, userID uuid.UUID) (*group.Group, user.User, error) {
	grp, err := s.groups.FindByCode(ctx, groupCode)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, user.User{}, ErrGroupNotFound
		}
		s.logger.Error("Failed to load group", zap.String("groupCode", groupCode), zap.Error(err))
		return nil, user.User{}, common.ErrInternalServer
	}

	for i := range grp.Members {
		if grp.Members[i].ID == userID {
			return grp, grp.Members[i], nil
		}
	}
	return nil, user.User{}, ErrNotAMember
}

// buildWish validates the trimmed payload and assembles the provisional row.
func (s *service) buildWish(groupID, userID uuid.UUID, req SubmitWishRequest) (*Wish, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	favoriteColor := strings.TrimSpace(req.FavoriteColor)
	favoriteSnacks := strings.TrimSpace(req.FavoriteSnacks)
	hobbies := strings.TrimSpace(req.Hobbies)

	missing := make(map[string]string)
	if displayName == "" {
		missing["display_name"] = "must not be empty"
	}
	if favoriteColor == "" {
		missing["favorite_color"] = "must not be empty"
	}
	if favoriteSnacks == "" {
		missing["favorite_snacks"] = "must not be empty"
	}
	if hobbies == "" {
		missing["hobbies"] = "must not be empty"
	}
	if len(missing) > 0 {
		return nil, common.NewValidationAPIError(missing)
	}

	return &Wish{
		GroupID:        groupID,
		UserID:         userID,
		DisplayName:    displayName,
		FavoriteColor:  favoriteColor,
		FavoriteSnacks: favoriteSnacks,
		Hobbies:        hobbies,
		ThingsLove:     sanitizeList(req.ThingsLove),
		ThingsNoNeed:   sanitizeList(req.ThingsNoNeed),
		Delivered:      false,
	}, nil
}

func (s *service) deliver(ctx context.Context, grp *group.Group, submitter, recipient user.User, w *Wish) error {
	subject, htmlBody, textBody, err := mailer.RenderWishEmail(mailer.WishEmailData{
		SantaName:      recipient.Name,
		GroupTitle:     grp.Title,
		DisplayName:    w.DisplayName,
		FavoriteColor:  w.FavoriteColor,
		FavoriteSnacks: w.FavoriteSnacks,
		Hobbies:        w.Hobbies,
		ThingsLove:     w.ThingsLove,
		ThingsNoNeed:   w.ThingsNoNeed,
	})
	if err != nil {
		return err
	}
	return s.mail.Deliver(ctx, mailer.Message{
		To:      recipient.Email,
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	})
}

// rollback removes the provisional wish. It runs detached from the request
// context so a client disconnect cannot leave the row behind.
func (s *service) rollback(ctx context.Context, wishID uuid.UUID, groupCode, reason string) {
	if err := s.repo.Delete(context.WithoutCancel(ctx), wishID); err != nil {
		s.logger.Error("Failed to roll back provisional wish",
			zap.String("wishID", wishID.String()),
			zap.String("groupCode", groupCode),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
}

// sanitizeList trims entries, drops empties, and keeps at most MaxListEntries.
// Over-limit input is truncated silently rather than rejected.
func sanitizeList(items []string) []string {
	out := make([]string, 0, MaxListEntries)
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
		if len(out) == MaxListEntries {
			break
		}
	}
	return out
}
