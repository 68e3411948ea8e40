package service

import (
	"context"
	"errors"
	"os"
	"time"

	"timetrack-be/internal/dto"
	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"
	"timetrack-be/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenLifetime = 24 * time.Hour

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) IAuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	existing, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewValidationError("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Id:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.NewStorageError("create user", err)
	}

	return &dto.RegisterResponse{Id: user.Id, Username: user.Username}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil || user == nil {
		return nil, apperrors.NewValidationError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.NewValidationError("invalid credentials")
	}

	expiresAt := time.Now().Add(tokenLifetime)
	claims := jwt.MapClaims{
		"user_id":  user.Id.String(),
		"is_admin": user.IsAdmin,
		"exp":      expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		UserId:    user.Id,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
	}, nil
}
