package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// IdentityClaims are the claims issued by the identity provider for a signed-in user.
type IdentityClaims struct {
	Email      string `json:"email,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Name       string `json:"name,omitempty"`
	Picture    string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Profile converts the claims into the profile used to sync the local user.
func (c *IdentityClaims) Profile() domain.IdentityProfile {
	return domain.IdentityProfile{
		Subject:    c.Subject,
		Email:      c.Email,
		GivenName:  c.GivenName,
		FamilyName: c.FamilyName,
		Name:       c.Name,
		Picture:    c.Picture,
	}
}

// AuthConfig holds what is needed to verify bearer tokens.
type AuthConfig struct {
	Secret string
	Issuer string // optional; when set the iss claim must match
}

// AuthMiddleware creates a Gin middleware handler that requires a valid JWT.
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return authenticate(cfg, false)
}

// OptionalAuthMiddleware authenticates the caller when an Authorization header
// is present and lets the request through anonymously otherwise. A header
// carrying a bad token is still rejected.
func OptionalAuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return authenticate(cfg, true)
}

func authenticate(cfg AuthConfig, optional bool) gin.HandlerFunc {
	var opts []jwt.ParserOption
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if optional {
				c.Next()
				return
			}
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &IdentityClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if !token.Valid || claims.Subject == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		// The anonymous owner is reserved for unauthenticated invoice flows.
		if claims.Subject == domain.AnonymousUserID {
			logger.Warn("Token subject uses the reserved anonymous owner")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, identityCtxKey, claims.Profile())
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
