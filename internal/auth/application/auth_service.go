// Package application 认证应用服务，签发与校验 JWT
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/wyfcoding/loanorigination/internal/auth/domain"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
	"github.com/wyfcoding/loanorigination/pkg/logger"
)

// token 类型常量
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims JWT 载荷
type Claims struct {
	UserID    uint   `json:"uid"`
	Username  string `json:"username"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair 登录签发的 token 对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService 认证应用服务
type AuthService struct {
	repo       domain.Repository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService 创建认证应用服务
func NewAuthService(repo domain.Repository, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		repo:       repo,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// HashPassword 生成 bcrypt 密码摘要
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login 校验口令并签发 token 对。未批准的账号拒绝登录。
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Persistence("get user", err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid username or password")
	}
	if !user.IsApproved {
		return nil, apperrors.Forbidden("user account is pending approval")
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "User logged in", "user_id", user.ID, "username", user.Username)
	return pair, nil
}

// Refresh 用 refresh token 换发新 token 对
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, apperrors.Unauthorized("token is not a refresh token")
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Persistence("get user", err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if !user.IsApproved {
		return nil, apperrors.Forbidden("user account is pending approval")
	}
	return s.issuePair(user)
}

// Authenticate 校验 access token 并返回用户
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, apperrors.Unauthorized("token is not an access token")
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Persistence("get user", err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return user, nil
}

func (s *AuthService) issuePair(user *domain.User) (*TokenPair, error) {
	access, err := s.sign(user, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *AuthService) sign(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Persistence("sign token", err)
	}
	return token, nil
}

func (s *AuthService) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}
