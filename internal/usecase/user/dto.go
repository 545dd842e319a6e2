package user

import (
	"time"

	domainUser "artmarket/internal/domain/user"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Username        string `json:"username" validate:"required,min=3,max=30,username"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=72,bcryptlen"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,oneof=buyer artist"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required,max=255"`
	Password        string `json:"password" validate:"required"`
}

type SendOTPRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required,max=255"`
}

type VerifyOTPRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required,max=255"`
	OTP             string `json:"otp" validate:"required"`
	ResetToken      string `json:"resetToken" validate:"required"`
}

type ResetPasswordRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required,max=255"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72,bcryptlen"`
	ResetToken      string `json:"resetToken" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72,bcryptlen"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=100"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url,max=2048"`
}

type ListUsersRequest struct {
	Role     string `form:"role" validate:"omitempty,oneof=buyer artist admin"`
	Blocked  *bool  `form:"blocked"`
	Search   string `form:"search" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=buyer artist admin"`
}

type SetBlockedRequest struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Blocked   bool      `json:"blocked"`
	Bio       *string   `json:"bio"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthResponse struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

type SendOTPResponse struct {
	ResetToken string `json:"resetToken"`
	Message    string `json:"message"`
}

type UserListResponse struct {
	Users      []*UserResponse `json:"users"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Blocked:   u.Blocked,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
