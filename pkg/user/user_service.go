package user

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"SaveByte/internal/utils/mailing"
	"SaveByte/pkg/jwt"
	"SaveByte/pkg/notification"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, []notification.Event, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		cost           int
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		cost:           bcryptCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, []notification.Event, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.RegisterResponse{}, nil, err
	}
	if exists {
		return domain.RegisterResponse{}, nil, domain.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return domain.RegisterResponse{}, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{
		ID:               uuid.New(),
		Role:             req.Role,
		OrganizationName: strings.TrimSpace(req.OrganizationName),
		Email:            email,
		Password:         string(hash),
		Phone:            req.Phone,
		Address:          req.Address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RegisterResponse{}, nil, domain.ErrUserAlreadyExists
		}
		return domain.RegisterResponse{}, nil, err
	}

	events := []notification.Event{
		notification.MailEvent(user.ID, mailing.WelcomeMail(user.Email, user.OrganizationName, user.Role)),
	}
	return domain.RegisterResponse{UserID: user.ID.String()}, events, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if user.Role != req.Role {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		UserID:           user.ID.String(),
		Email:            user.Email,
		Role:             user.Role,
		Token:            token,
		OrganizationName: user.OrganizationName,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.UserResponse{}, domain.ErrParseUUID
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	return domain.UserResponse{
		ID:               user.ID.String(),
		Role:             user.Role,
		OrganizationName: user.OrganizationName,
		Email:            user.Email,
		Phone:            user.Phone,
		Address:          user.Address,
		Latitude:         user.Latitude,
		Longitude:        user.Longitude,
		CreatedAt:        user.CreatedAt,
	}, nil
}
