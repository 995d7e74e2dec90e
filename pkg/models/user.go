package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Roles, the sole authorization axis in this system.
const (
	RoleUser     = "user"
	RoleSupplier = "supplier"
	RoleAdmin    = "admin"
)

type User struct {
	ID               bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string        `json:"name" bson:"name" validate:"required"`
	Email            string        `json:"email" bson:"email" validate:"required,email"`
	Password         string        `json:"-" bson:"password"`
	Role             string        `json:"role" bson:"role" validate:"oneof=user supplier admin"`
	ResetToken       string        `json:"-" bson:"resetToken,omitempty"`
	ResetTokenExpiry *time.Time    `json:"-" bson:"resetTokenExpiry,omitempty"`
	CreatedAt        time.Time     `json:"createdAt" bson:"createdAt"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleSupplier, RoleAdmin:
		return true
	}
	return false
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UpdateUserRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}
