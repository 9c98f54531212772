package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtIssuer   = "wave-studio-api"
	jwtAudience = "wave-studio-admins"

	AccessTokenTTL  = 8 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrEmptyJWTSecret   = errors.New("jwt secret cannot be empty")
)

type Claims struct {
	AdminID   int    `json:"admin_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func CheckPassword(hashedPassword, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
}

func generateToken(adminID int, username, role, tokenType, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptyJWTSecret
	}

	now := time.Now()
	claims := &Claims{
		AdminID:   adminID,
		Username:  username,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateAccessToken(adminID int, username, role, secret string) (string, error) {
	return generateToken(adminID, username, role, tokenTypeAccess, secret, AccessTokenTTL)
}

func GenerateRefreshToken(adminID int, username, role, secret string) (string, error) {
	return generateToken(adminID, username, role, tokenTypeRefresh, secret, RefreshTokenTTL)
}

func GenerateTokens(adminID int, username, role, secret string) (accessToken, refreshToken string, err error) {
	accessToken, err = GenerateAccessToken(adminID, username, role, secret)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = GenerateRefreshToken(adminID, username, role, secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func ValidateToken(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptyJWTSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(jwtIssuer),
		jwt.WithAudience(jwtAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
func RefreshAccessToken(refreshToken, secret string) (string, *Claims, error) {
	claims, err := ValidateToken(refreshToken, secret)
	if err != nil {
		return "", nil, err
	}

	if claims.TokenType != tokenTypeRefresh {
		return "", nil, ErrInvalidTokenType
	}

	accessToken, err := GenerateAccessToken(claims.AdminID, claims.Username, claims.Role, secret)
	if err != nil {
		return "", nil, err
	}

	return accessToken, claims, nil
}

type adminIDKey struct{}

// ContextWithAdminID attaches the authenticated admin to ctx so services can
// attribute audit entries without depending on gin.
func ContextWithAdminID(ctx context.Context, adminID int) context.Context {
	return context.WithValue(ctx, adminIDKey{}, adminID)
}

func AdminIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(adminIDKey{}).(int)
	return id, ok
}
