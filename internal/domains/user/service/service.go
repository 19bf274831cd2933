package service

import (
	"context"

	"inventory-backend/internal/domains/user/model"
	"inventory-backend/internal/domains/user/repository"
	"inventory-backend/internal/shared/apperr"
	"inventory-backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ServiceInterface is the user account contract.
type ServiceInterface interface {
	// Login verifies credentials and issues a bearer token. Unknown users,
	// wrong passwords and deactivated accounts all fail identically.
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)

	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateUserRequest) (*model.User, error)
}

type userService struct {
	repo       repository.RepositoryInterface
	jwtManager *jwt.Manager
	hashCost   int
}

// NewUserService creates the user service.
func NewUserService(repo repository.RepositoryInterface, jwtManager *jwt.Manager, hashCost int) ServiceInterface {
	return &userService{repo: repo, jwtManager: jwtManager, hashCost: hashCost}
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("login", err.Error())
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.ErrUnauthorized
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.ErrUnauthorized
	}

	token, err := s.jwtManager.GenerateToken(user.ID.String(), user.Username, user.FullName, string(user.Role))
	if err != nil {
		return nil, apperr.Fatal(err)
	}

	return &model.LoginResponse{
		UserID:   user.ID,
		FullName: user.FullName,
		Role:     user.Role,
		Token:    token,
	}, nil
}

func (s *userService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("user", err.Error())
	}
	if !req.Role.IsValid() {
		return nil, apperr.Validation("role", "must be ADMIN, MANAGER, SALES or WAREHOUSE")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, apperr.Fatal(err)
	}

	user := &model.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Role:         req.Role,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, apperr.Validation("full_name", "must not be empty")
		}
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, apperr.Validation("role", "must be ADMIN, MANAGER, SALES or WAREHOUSE")
		}
		user.Role = *req.Role
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, apperr.Validation("password", "must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.hashCost)
		if err != nil {
			return nil, apperr.Fatal(err)
		}
		user.PasswordHash = string(hash)
	}
	if req.IsActive != nil {
		// Deactivation only blocks future logins; authorship of historical
		// documents stays intact.
		user.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
