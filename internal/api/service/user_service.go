package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/api/auth"
	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/storage"
	"golang.org/x/crypto/bcrypt"
)

// Session is returned by signup and login
type Session struct {
	Email string
	Token string
}

// UserService registers users, logs them in and resolves bearer tokens
type UserService struct {
	store      storage.UserStore
	tokens     *auth.TokenService
	bcryptCost int
	logger     *slog.Logger
}

// NewUserService creates a user service. A bcryptCost of 0 uses bcrypt.DefaultCost.
func NewUserService(store storage.UserStore, tokens *auth.TokenService, bcryptCost int, logger *slog.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		store:      store,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *UserService) Signup(ctx context.Context, signup domain.Signup) (*Session, error) {
	signup.Email = domain.NormalizeEmail(signup.Email)
	if err := domain.ValidateSignup(&signup); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:             signup.Name,
		Email:            signup.Email,
		PasswordHash:     string(hash),
		PhoneNumber:      signup.PhoneNumber,
		Gender:           signup.Gender,
		DateOfBirth:      signup.DateOfBirth,
		MembershipStatus: signup.MembershipStatus,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", slog.String("user_id", user.ID))
	return s.session(user)
}

// Login checks the password and issues a token. Unknown emails and wrong
// passwords both return domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.session(user)
}

// Authenticate resolves a bearer token to an existing user
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidID) {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) session(user *domain.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Email: user.Email, Token: token}, nil
}
