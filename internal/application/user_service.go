package application

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/devarta/taskboard/internal/domain/entity"
	repo "github.com/devarta/taskboard/internal/domain/repository"
	"github.com/devarta/taskboard/pkg/helpers"
)

// UserService handles registration and the credential boundary: it turns
// email/password into an authenticated identity with a Redis-backed session.
type UserService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewUserService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, JWT: jwt, Redis: rdb, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates a user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if existing, err := s.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash, Name: name}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without
// issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name}, pair, nil
}

// Refresh rotates the token pair after validating the refresh token and
// the Redis session it belongs to.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 {
			return TokenPair{}, ErrInvalidCredentials
		}
	}
	return s.IssueTokens(ctx, u)
}

// Logout drops the Redis session.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}
