package dto

import "time"

// UserRegisterDTO is used for incoming registration requests. The password is
// write-only: it never appears in any response payload.
type UserRegisterDTO struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=5"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Town        *string `json:"town,omitempty" validate:"omitempty,max=35"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
}

// UserUpdateDTO is used for incoming profile update requests.
type UserUpdateDTO struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Town        *string `json:"town,omitempty" validate:"omitempty,max=35"`
	AvatarURL   *string `json:"avatar,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
}

// UserPublicDTO is the profile view any authenticated user may see.
type UserPublicDTO struct {
	ID        int64  `json:"id"`
	Town      string `json:"town"`
	AvatarURL string `json:"avatar"`
}

// UserPrivateDTO is the subject's own profile view, payment history included.
type UserPrivateDTO struct {
	ID          int64                `json:"id"`
	Email       string               `json:"email"`
	FirstName   string               `json:"first_name"`
	LastName    string               `json:"last_name"`
	PhoneNumber string               `json:"phone_number"`
	Town        string               `json:"town"`
	AvatarURL   string               `json:"avatar"`
	Role        string               `json:"role"`
	IsActive    bool                 `json:"is_active"`
	LastLogin   *time.Time           `json:"last_login"`
	Payments    []PaymentResponseDTO `json:"payments"`
}

// LoginDTO is used for incoming login requests.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPairDTO is returned on successful login.
type TokenPairDTO struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenRefreshDTO is used for incoming token refresh requests.
type TokenRefreshDTO struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenAccessDTO is returned on successful refresh.
type TokenAccessDTO struct {
	Access string `json:"access"`
}
