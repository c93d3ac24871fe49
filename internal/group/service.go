// File: internal/group/service.go
package group

import (
	"context"
	"fmt"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/config"
	"github.com/RulerDevansh/SecretSanta/internal/platform/crypto"
	"github.com/RulerDevansh/SecretSanta/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for group business logic.
type Service interface {
	Create(ctx context.Context, hostID uuid.UUID, title string) (*GroupResponse, error)
	Join(ctx context.Context, userID uuid.UUID, code string) (*GroupResponse, error)
	GetByCode(ctx context.Context, userID uuid.UUID, code string) (*GroupResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]GroupSummary, error)
	Start(ctx context.Context, userID uuid.UUID, code string) (*GroupResponse, error)
	Leave(ctx context.Context, userID uuid.UUID, code string) error
	Delete(ctx context.Context, userID uuid.UUID, code string) error
}

type service struct {
	repo      Repository
	wishStore WishStore
	cfg       *config.Config
	logger    *zap.Logger
}

var _ Service = (*service)(nil)

// NewService creates a new group service.
func NewService(repo Repository, wishStore WishStore, cfg *config.Config, logger *zap.Logger) Service {
	return &service{repo: repo, wishStore: wishStore, cfg: cfg, logger: logger}
}

// Create makes a new group with a fresh join code, hosted by hostID.
// The host is always the first member.
func (s *service) Create(ctx context.Context, hostID uuid.UUID, title string) (*GroupResponse, error) {
	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		s.logger.Error("Failed to generate group join code", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not generate a group code.")
	}

	// The host membership rides along in the same insert, so a failed create
	// never leaves a hostless group holding a reserved code.
	groupModel := &Group{
		Title:   title,
		Code:    code,
		HostID:  hostID,
		Members: []user.User{{BaseModel: common.BaseModel{ID: hostID}}},
	}
	if err := s.repo.Create(ctx, groupModel); err != nil {
		s.logger.Error("Failed to create group", zap.Error(err), zap.String("hostID", hostID.String()))
		return nil, err
	}

	s.logger.Info("Group created",
		zap.String("groupID", groupModel.ID.String()),
		zap.String("code", code),
		zap.String("hostID", hostID.String()),
	)
	return s.buildResponse(ctx, groupModel.Code)
}

// Join adds the user to the group identified by code. Joining is closed once
// the exchange has started, but existing members may still fetch the group.
func (s *service) Join(ctx context.Context, userID uuid.UUID, code string) (*GroupResponse, error) {
	groupModel, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	alreadyMember := groupModel.IsMember(userID)
	if groupModel.HasStarted && !alreadyMember {
		return nil, common.ErrBadRequest.WithDetails("Secret Santa already started. Joining is closed.")
	}

	if !alreadyMember {
		if err := s.repo.AddMember(ctx, groupModel, userID); err != nil {
			s.logger.Error("Failed to add member to group", zap.Error(err),
				zap.String("groupID", groupModel.ID.String()), zap.String("userID", userID.String()))
			return nil, err
		}
		s.logger.Info("User joined group",
			zap.String("groupID", groupModel.ID.String()), zap.String("userID", userID.String()))
	}

	return s.buildResponse(ctx, groupModel.Code)
}

// GetByCode returns the group view for a member.
func (s *service) GetByCode(ctx context.Context, userID uuid.UUID, code string) (*GroupResponse, error) {
	groupModel, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !groupModel.IsMember(userID) {
		return nil, common.ErrForbidden.WithDetails("You are not part of this group.")
	}
	return s.buildResponse(ctx, groupModel.Code)
}

// ListMine returns summaries of every group the user belongs to.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]GroupSummary, error) {
	groups, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list groups for user", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}
	summaries := make([]GroupSummary, 0, len(groups))
	for i := range groups {
		summaries = append(summaries, ToGroupSummary(&groups[i]))
	}
	return summaries, nil
}

// Start flips the group into its started state. Host only, needs at least
// two members, and the transition is one-way.
func (s *service) Start(ctx context.Context, userID uuid.UUID, code string) (*GroupResponse, error) {
	groupModel, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if groupModel.HostID != userID {
		return nil, common.ErrForbidden.WithDetails("Only the host can start Secret Santa.")
	}
	if groupModel.HasStarted {
		return nil, common.ErrBadRequest.WithDetails("Secret Santa already started.")
	}
	if len(groupModel.Members) < 2 {
		return nil, common.ErrBadRequest.WithDetails("Need at least 2 members to start Secret Santa.")
	}

	started, err := s.repo.MarkStarted(ctx, groupModel.ID)
	if err != nil {
		s.logger.Error("Failed to mark group started", zap.Error(err), zap.String("groupID", groupModel.ID.String()))
		return nil, err
	}
	if !started {
		// Lost a race with another start request; the observable outcome is the same.
		s.logger.Debug("Group was already started concurrently", zap.String("groupID", groupModel.ID.String()))
	}

	s.logger.Info("Secret Santa started",
		zap.String("groupID", groupModel.ID.String()), zap.Int("members", len(groupModel.Members)))
	return s.buildResponse(ctx, groupModel.Code)
}

// Leave removes a non-host member from the group along with their wish.
func (s *service) Leave(ctx context.Context, userID uuid.UUID, code string) error {
	groupModel, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if groupModel.HostID == userID {
		return common.ErrForbidden.WithDetails("Host cannot leave the group.")
	}
	if !groupModel.IsMember(userID) {
		return common.ErrBadRequest.WithDetails("You are not a member of this group.")
	}

	if err := s.repo.RemoveMember(ctx, groupModel, userID); err != nil {
		s.logger.Error("Failed to remove member from group", zap.Error(err),
			zap.String("groupID", groupModel.ID.String()), zap.String("userID", userID.String()))
		return err
	}
	if err := s.wishStore.DeleteByGroupAndUser(ctx, groupModel.ID, userID); err != nil {
		s.logger.Error("Failed to delete wish for leaving member", zap.Error(err),
			zap.String("groupID", groupModel.ID.String()), zap.String("userID", userID.String()))
		return err
	}

	s.logger.Info("User left group",
		zap.String("groupID", groupModel.ID.String()), zap.String("userID", userID.String()))
	return nil
}

// Delete removes the group, its member rows and all of its wishes. Host only.
func (s *service) Delete(ctx context.Context, userID uuid.UUID, code string) error {
	groupModel, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if groupModel.HostID != userID {
		return common.ErrForbidden.WithDetails("Only the host can delete this group.")
	}

	if err := s.wishStore.DeleteByGroup(ctx, groupModel.ID); err != nil {
		s.logger.Error("Failed to delete wishes for group", zap.Error(err), zap.String("groupID", groupModel.ID.String()))
		return err
	}
	if err := s.repo.Delete(ctx, groupModel); err != nil {
		s.logger.Error("Failed to delete group", zap.Error(err), zap.String("groupID", groupModel.ID.String()))
		return err
	}

	s.logger.Info("Group deleted", zap.String("groupID", groupModel.ID.String()))
	return nil
}

func (s *service) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := crypto.GenerateJoinCode(JoinCodeLength)
		if err != nil {
			return "", err
		}
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not find a free join code after 10 attempts")
}

// buildResponse re-reads the group so the response reflects membership
// changes made in the same call, then folds in per-member wish status.
func (s *service) buildResponse(ctx context.Context, code string) (*GroupResponse, error) {
	groupModel, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	statuses, err := s.wishStore.StatusesByGroup(ctx, groupModel.ID)
	if err != nil {
		s.logger.Error("Failed to load wish statuses for group", zap.Error(err), zap.String("groupID", groupModel.ID.String()))
		return nil, err
	}
	return ToGroupResponse(groupModel, statuses), nil
}
