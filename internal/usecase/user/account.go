package user

import (
	"context"
	"fmt"
	"strings"

	domainUser "artmarket/internal/domain/user"
	"artmarket/internal/infrastructure/notification"
	"artmarket/internal/logger"
	appErrors "artmarket/pkg/errors"
	"artmarket/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	if req.Name != nil {
		name := utils.SanitizeString(*req.Name)
		req.Name = &name
	}
	req.Bio = utils.SanitizeOptional(req.Bio, utils.SanitizeText)
	req.AvatarURL = utils.SanitizeOptional(req.AvatarURL, strings.TrimSpace)

	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetPublicByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.Validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.PasswordHashed, req.OldPassword) {
		logger.Warn("Password change attempt with invalid old password",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "password_change_failed_invalid_old_password"),
		)
		return appErrors.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	logger.Info("Password changed successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_change_success"),
	)

	return nil
}

func (s *Service) ListUsers(ctx context.Context, req *ListUsersRequest) (*UserListResponse, error) {
	req.Search = utils.SanitizeString(req.Search)
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	filter := &domainUser.Filter{
		Blocked:  req.Blocked,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Role != "" {
		role := domainUser.Role(req.Role)
		filter.Role = &role
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(u))
	}

	return &UserListResponse{
		Users:      responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize)),
	}, nil
}

func (s *Service) UpdateRole(ctx context.Context, adminID, userID uuid.UUID, req *UpdateRoleRequest) (*UserResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if adminID == userID {
		return nil, domainUser.ErrSelfModeration
	}

	role, err := domainUser.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetPublicByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("User role changed",
		zap.String("admin_id", adminID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", string(role)),
		zap.String("event", "user_role_changed"),
	)

	return ToUserResponse(user), nil
}

func (s *Service) SetBlocked(ctx context.Context, adminID, userID uuid.UUID, req *SetBlockedRequest) (*UserResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if adminID == userID {
		return nil, domainUser.ErrSelfModeration
	}

	blocked := *req.Blocked
	if err := s.userRepo.SetBlocked(ctx, userID, blocked); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetPublicByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("User block status changed",
		zap.String("admin_id", adminID.String()),
		zap.String("user_id", userID.String()),
		zap.Bool("blocked", blocked),
		zap.String("event", "user_block_changed"),
	)

	if blocked {
		s.publish(ctx, notification.NewEvent(notification.EventUserBlocked, userID, map[string]interface{}{
			"blockedBy": adminID.String(),
		}))
	}

	return ToUserResponse(user), nil
}
