package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/floresya/floresya/internal/user/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, login and the token verification the
// auth middleware delegates to.
type UserService struct {
	repo      domain.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserService(repo domain.UserRepository, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterCommand carries sign-up fields.
type RegisterCommand struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// Register creates a customer account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if _, err := s.repo.GetByEmail(ctx, cmd.Email); err == nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        cmd.Email,
		PasswordHash: string(hash),
		FullName:     cmd.FullName,
		Phone:        cmd.Phone,
		Role:         domain.RoleUser,
		Active:       true,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login checks credentials and issues a signed session token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !user.Active {
		return "", nil, domain.ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// Verify implements the middleware's token check: parse, validate expiry and
// signature, and return the embedded identity.
func (s *UserService) Verify(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", domain.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", domain.ErrInvalidCredentials
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", domain.ErrInvalidCredentials
	}
	role, _ := claims["role"].(string)
	return uint(sub), role, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns users for the admin panel.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, limit, offset)
}

// SetActive toggles an account on or off.
func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	logger.Info(ctx, "User active flag updated", "user_id", id, "active", active)
	return user, nil
}
