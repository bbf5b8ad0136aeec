package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/muni-rrhh/dashboard/internal/application/port"
	"github.com/muni-rrhh/dashboard/internal/domain"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/pkg/utils"
)

// AuthConfig configures token issuance and the seeded administrator
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Claims are the authenticated identity carried by a token
type Claims struct {
	UserID int64
	Email  string
	Role   string
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *entity.User `json:"user"`
}

// AuthService handles login, token verification and profile settings
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ParseToken(token string) (*Claims, error)
	Me(ctx context.Context, userID int64) (*entity.User, error)
	UpdateEmail(ctx context.Context, userID int64, email string) (*entity.User, error)
	UpdateNotifications(ctx context.Context, userID int64, enabled bool) (*entity.User, error)

	// SeedAdmin creates the configured administrator when no user exists
	SeedAdmin(ctx context.Context) error
}

type authServiceImpl struct {
	users  port.UserRepository
	cfg    AuthConfig
	now    func() time.Time
	logger Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users port.UserRepository, cfg AuthConfig, logger Logger) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &authServiceImpl{
		users:  users,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Rejected login", "email", user.Email)
		return nil, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"role":  user.Role,
		"exp":   expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &LoginResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authServiceImpl) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthorized
	}
	sub, _ := mc["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}
	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)

	return &Claims{UserID: id, Email: email, Role: role}, nil
}

func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*entity.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *authServiceImpl) UpdateEmail(ctx context.Context, userID int64, email string) (*entity.User, error) {
	email = strings.TrimSpace(email)
	if err := utils.ValidateEmail(email); err != nil {
		verr := domain.NewValidationError()
		verr.Add("email", "invalid email format")
		return nil, verr
	}

	if err := s.users.UpdateEmail(ctx, userID, email); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			verr := domain.NewValidationError()
			verr.Add("email", "is already taken")
			return nil, verr
		}
		return nil, fmt.Errorf("update email: %w", err)
	}

	s.logger.Info("User email updated", "user_id", userID)
	return s.users.GetByID(ctx, userID)
}

func (s *authServiceImpl) UpdateNotifications(ctx context.Context, userID int64, enabled bool) (*entity.User, error) {
	if err := s.users.UpdateNotifications(ctx, userID, enabled); err != nil {
		return nil, fmt.Errorf("update notifications: %w", err)
	}
	return s.users.GetByID(ctx, userID)
}

func (s *authServiceImpl) SeedAdmin(ctx context.Context) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		s.logger.Info("No users and no admin credentials configured; skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &entity.User{
		Email:         s.cfg.AdminEmail,
		Name:          s.cfg.AdminName,
		Role:          entity.RoleAdmin,
		PasswordHash:  string(hash),
		Notifications: true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("Admin user seeded", "email", admin.Email)
	return nil
}
