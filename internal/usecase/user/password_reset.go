package user

import (
	"context"
	"errors"
	"fmt"

	domainUser "artmarket/internal/domain/user"
	"artmarket/internal/logger"
	"artmarket/pkg/utils"

	"go.uber.org/zap"
)

const otpSentMessage = "A verification code has been sent to your email"

// SendOTP starts a reset cycle, replacing any cycle already in flight for the user.
func (s *Service) SendOTP(ctx context.Context, req *SendOTPRequest) (*SendOTPResponse, error) {
	req.EmailOrUsername = utils.SanitizeIdentifier(req.EmailOrUsername)

	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmailOrUsername(ctx, req.EmailOrUsername)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for unknown identifier",
				zap.String("identifier", req.EmailOrUsername),
				zap.String("event", "password_reset_unknown_user"),
			)
		}
		return nil, err
	}

	code, err := s.generateOTP()
	if err != nil {
		return nil, err
	}

	ttl := s.config.Reset.OTPTTL()
	ticket, err := s.tokens.IssueResetTicket(user.ID, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue reset ticket: %w", err)
	}

	reset := &domainUser.PasswordReset{
		Code:      code,
		ExpiresAt: s.now().Add(ttl),
		Ticket:    ticket,
		Verified:  false,
	}
	if err := s.userRepo.SaveReset(ctx, user.ID, reset); err != nil {
		return nil, err
	}

	logger.Info("Password reset requested",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", reset.ExpiresAt),
		zap.String("event", "password_reset_requested"),
	)

	// The code is already persisted, so a delivery failure must not fail the request.
	if err := s.mailer.SendPasswordResetOTP(ctx, user.Email, user.Name, code, ttl); err != nil {
		logger.Warn("Password reset email not delivered, code available to operators",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.String("otp", code),
			zap.String("event", "password_reset_delivery_failed"),
			zap.Error(err),
		)
	}

	return &SendOTPResponse{
		ResetToken: ticket,
		Message:    otpSentMessage,
	}, nil
}

// VerifyOTP confirms the code and returns the verified ticket required by ResetPassword.
func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (string, error) {
	req.EmailOrUsername = utils.SanitizeIdentifier(req.EmailOrUsername)
	req.OTP = utils.SanitizeString(req.OTP)

	if err := utils.Validate(req); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmailOrUsername(ctx, req.EmailOrUsername)
	if err != nil {
		return "", err
	}

	reset := user.Reset
	if reset == nil {
		return "", domainUser.ErrOTPNotRequested
	}
	if !utils.SecureCompare(reset.Code, req.OTP) {
		logger.Warn("Password reset verification with wrong code",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "password_reset_invalid_otp"),
		)
		return "", domainUser.ErrOTPInvalid
	}
	if reset.IsExpired(s.now()) {
		return "", domainUser.ErrOTPExpired
	}
	// Once verified, only the commit step may consume the ticket.
	if reset.Verified || !utils.SecureCompare(reset.Ticket, req.ResetToken) {
		return "", domainUser.ErrResetTokenMismatch
	}

	verifiedTicket := domainUser.VerifiedTicket(reset.Ticket)
	if err := s.userRepo.MarkResetVerified(ctx, user.ID, reset.Ticket, verifiedTicket); err != nil {
		return "", err
	}

	logger.Info("Password reset code verified",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_reset_verified"),
	)

	return verifiedTicket, nil
}

// ResetPassword commits the new password. Every rejection leaves the stored reset untouched.
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	req.EmailOrUsername = utils.SanitizeIdentifier(req.EmailOrUsername)

	if err := utils.Validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmailOrUsername(ctx, req.EmailOrUsername)
	if err != nil {
		return err
	}

	if !domainUser.IsVerifiedTicket(req.ResetToken) {
		return domainUser.ErrResetNotVerified
	}

	reset := user.Reset
	if reset == nil || !reset.Verified {
		return domainUser.ErrResetNotVerified
	}
	if !utils.SecureCompare(reset.Ticket, req.ResetToken) {
		return domainUser.ErrResetTokenMismatch
	}
	if reset.IsExpired(s.now()) {
		return domainUser.ErrOTPExpired
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.CompletePasswordReset(ctx, user.ID, req.ResetToken, hashedPassword); err != nil {
		return err
	}

	logger.Info("Password reset successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_reset_success"),
	)

	return nil
}
