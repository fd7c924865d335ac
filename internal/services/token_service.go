package services

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tmoreau/cvfolio/internal/models"
	"github.com/tmoreau/cvfolio/internal/repository"
)

// AuthCookieName is the HttpOnly session cookie carrying the access
// token for browser clients.
const AuthCookieName = "auth_token"

const refreshTokenType = "refresh"

// TokenService issues and validates the bearer credentials representing
// "this request is the admin user".
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      repository.UserRepository
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, users repository.UserRepository) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
	}
}

// AccessTTL is exposed so handlers can report expiry alongside tokens.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// SignAccessToken issues a short-lived access token for userID.
func (s *TokenService) SignAccessToken(userID string) (string, error) {
	return s.sign(userID, "", s.accessTTL)
}

// SignRefreshToken issues a longer-lived token tagged as a refresh
// token so it cannot be presented where an access token is required.
func (s *TokenService) SignRefreshToken(userID string) (string, error) {
	return s.sign(userID, refreshTokenType, s.refreshTTL)
}

func (s *TokenService) sign(userID, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	if typ != "" {
		claims["typ"] = typ
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify decodes an access token and returns the user ID it carries.
// Malformed, expired or refresh-typed tokens yield ok=false; garbage
// input is "unauthenticated", never a failure.
func (s *TokenService) Verify(tokenString string) (string, bool) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	if typ, _ := claims["typ"].(string); typ == refreshTokenType {
		return "", false
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// ExtractIdentity resolves the user behind a request. Resolution order:
// the HttpOnly cookie first, then the Authorization: Bearer header.
// Returns nil when no verifiable token is present or the decoded user
// no longer exists.
func (s *TokenService) ExtractIdentity(ctx context.Context, c *fiber.Ctx) *models.User {
	tokenString := c.Cookies(AuthCookieName)
	if tokenString == "" {
		auth := c.Get(fiber.HeaderAuthorization)
		if after, found := strings.CutPrefix(auth, "Bearer "); found {
			tokenString = after
		}
	}
	if tokenString == "" {
		return nil
	}

	userID, ok := s.Verify(tokenString)
	if !ok {
		return nil
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	user, err := s.users.FindByID(ctx, objID)
	if err != nil {
		return nil
	}
	return user
}
