package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister = "user registered successfully"
	MessageSuccessLogin    = "user logged in successfully"
	MessageSuccessGetUser  = "user retrieved successfully"

	MessageFailedRegister = "signing up failed, please try again later"
	MessageFailedLogin    = "logging in failed, please try again later"
	MessageFailedGetUser  = "failed to retrieve user"

	ErrUserAlreadyExists  = errors.New("user already exists! Please login instead")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials or role, could not log you in")
)

type (
	RegisterRequest struct {
		Role             string  `json:"role" validate:"required,oneof=HOSTEL NGO AWC"`
		OrganizationName string  `json:"organization_name" validate:"required,max=200"`
		Email            string  `json:"email" validate:"required,email"`
		Password         string  `json:"password" validate:"required,min=6"`
		Phone            string  `json:"phone" validate:"required"`
		Address          string  `json:"address" validate:"required"`
		Latitude         float64 `json:"latitude" validate:"latitude"`
		Longitude        float64 `json:"longitude" validate:"longitude"`
	}

	RegisterResponse struct {
		UserID string `json:"user_id"`
	}

	LoginRequest struct {
		Role     string `json:"role" validate:"required,oneof=HOSTEL NGO AWC"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		UserID           string `json:"user_id"`
		Email            string `json:"email"`
		Role             string `json:"role"`
		Token            string `json:"token"`
		OrganizationName string `json:"organization_name"`
	}

	UserResponse struct {
		ID               string    `json:"id"`
		Role             string    `json:"role"`
		OrganizationName string    `json:"organization_name"`
		Email            string    `json:"email"`
		Phone            string    `json:"phone"`
		Address          string    `json:"address"`
		Latitude         float64   `json:"latitude"`
		Longitude        float64   `json:"longitude"`
		CreatedAt        time.Time `json:"created_at"`
	}
)
