package domain

import (
	"errors"
)

const (
	RoleHostel = "HOSTEL"
	RoleNGO    = "NGO"
	RoleAWC    = "AWC"
)

var (
	MesaageUserNotAllowed     = "user not allowed"
	MessageFailedBodyRequest  = "invalid inputs passed, please check your data"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"
	MessageTryAgainLater      = "something went wrong, please try again later"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrRoleNotAllowed = errors.New("role not allowed for this operation")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)
