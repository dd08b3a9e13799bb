package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"` // bcrypt hash, never serialised
	Role           Role      `json:"role" gorm:"size:20;index"`
	Name           string    `json:"name"`
	Mobile         *string   `json:"mobile,omitempty" gorm:"uniqueIndex"`
	Age            *int      `json:"age,omitempty"`
	MobileVerified bool      `json:"mobile_verified"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	FirebaseUID    *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RegisterRequest is the payload accepted by the registration collaborator.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=80"`
	Age             *int   `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Mobile          string `json:"mobile" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Role            Role   `json:"role" validate:"required,oneof=donor hospital"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token mirrors the bearer token response of the auth endpoints.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	Role           Role         `json:"role"`
	Capabilities   []Capability `json:"capabilities"`
	Name           string       `json:"name"`
	Mobile         *string      `json:"mobile,omitempty"`
	Age            *int         `json:"age,omitempty"`
	MobileVerified bool         `json:"mobile_verified"`
	IsActive       bool         `json:"is_active"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Role:           u.Role,
		Capabilities:   u.Role.Capabilities(),
		Name:           u.Name,
		Mobile:         u.Mobile,
		Age:            u.Age,
		MobileVerified: u.MobileVerified,
		IsActive:       u.IsActive,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"sub_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
