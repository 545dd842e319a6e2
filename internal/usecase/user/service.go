package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artmarket/internal/config"
	domainUser "artmarket/internal/domain/user"
	"artmarket/internal/infrastructure/mail"
	"artmarket/internal/infrastructure/notification"
	"artmarket/internal/logger"
	appErrors "artmarket/pkg/errors"
	"artmarket/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements user use cases: registration, login, the password-reset
// flow, profile management and admin moderation.
type Service struct {
	userRepo    domainUser.Repository
	tokens      *utils.TokenIssuer
	mailer      mail.Sender
	publisher   notification.Publisher
	config      *config.Config
	now         func() time.Time
	generateOTP func() (string, error)
}

type Option func(*Service)

// WithClock replaces time.Now, e.g. to test OTP expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithOTPGenerator(fn func() (string, error)) Option {
	return func(s *Service) { s.generateOTP = fn }
}

func NewService(
	userRepo domainUser.Repository,
	tokens *utils.TokenIssuer,
	mailer mail.Sender,
	publisher notification.Publisher,
	cfg *config.Config,
	opts ...Option,
) *Service {
	s := &Service{
		userRepo:    userRepo,
		tokens:      tokens,
		mailer:      mailer,
		publisher:   publisher,
		config:      cfg,
		now:         time.Now,
		generateOTP: utils.GenerateOTP,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Name = utils.SanitizeString(req.Name)
	req.Username = utils.SanitizeIdentifier(req.Username)
	req.Email = utils.SanitizeEmail(req.Email)
	req.Role = utils.SanitizeIdentifier(req.Role)

	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	role := domainUser.RoleBuyer
	if req.Role != "" {
		role = domainUser.Role(req.Role)
	}

	if err := s.ensureAvailable(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domainUser.User{
		Name:           req.Name,
		Username:       req.Username,
		Email:          req.Email,
		PasswordHashed: hashedPassword,
		Role:           role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("event", "user_registered"),
	)

	return s.issueSession(user)
}

// ensureAvailable gives a precise duplicate error before insert; the unique
// indexes still catch registrations that race past it.
func (s *Service) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return domainUser.ErrUsernameTaken
	} else if !errors.Is(err, domainUser.ErrUserNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return domainUser.ErrEmailTaken
	} else if !errors.Is(err, domainUser.ErrUserNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	return nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.EmailOrUsername = utils.SanitizeIdentifier(req.EmailOrUsername)

	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmailOrUsername(ctx, req.EmailOrUsername)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with unknown identifier",
				zap.String("identifier", req.EmailOrUsername),
				zap.String("event", "login_failed_unknown_user"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if user.Blocked {
		logger.Warn("Login attempt for blocked user",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "login_failed_blocked_user"),
		)
		return nil, domainUser.ErrAccountBlocked
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("event", "login_success"),
	)

	return s.issueSession(user)
}

func (s *Service) issueSession(user *domainUser.User) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{
		User:      ToUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetPublicByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

func (s *Service) publish(ctx context.Context, event notification.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("event", event.Type),
			zap.String("recipient_id", event.RecipientID.String()),
			zap.Error(err),
		)
	}
}
