package services

import (
	"context"
	"strings"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/auth"
	"cms-backend/internal/cache"
	"cms-backend/internal/models"
)

type UserService struct {
	UserRepo   UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(userRepo UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		JWTManager: jwtManager,
	}
}

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Name == "" || req.Email == "" {
		return nil, apperrors.Validation("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}
	role := req.Role
	if role == "" {
		role = models.RoleOperator
	}
	if role != models.RoleAdmin && role != models.RoleOperator {
		return nil, apperrors.Validation("role must be 'admin' or 'operator'")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Redis fast path skips bcrypt for recently validated credentials.
	if userID, ok := cache.GetCachedAuth(ctx, email, req.Password); ok {
		user, err := s.UserRepo.Get(ctx, userID)
		if err == nil && user.IsActive {
			token, err := s.JWTManager.GenerateToken(user)
			if err != nil {
				return nil, err
			}
			return &models.AuthResponse{Token: token, User: user}, nil
		}
	}

	user, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Validation("invalid email or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.Validation("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperrors.InvalidState("account is suspended")
	}

	cache.CacheAuth(ctx, email, req.Password, user.ID)

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
