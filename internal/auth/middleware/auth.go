package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/veriflow-mrv/veriflow-backend/internal/auth"
	"github.com/veriflow-mrv/veriflow-backend/internal/auth/domain"
)

// TokenVerifier resolves a bearer token to a requester identity.
type TokenVerifier interface {
	Verify(token string) (*auth.Requester, error)
}

// UserLookup resolves the account behind a Firebase token's email claim.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RequireAuth validates locally issued session tokens and attaches the
// requester identity for downstream handlers.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authorization token"})
			c.Abort()
			return
		}

		requester, err := verifier.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			c.Abort()
			return
		}

		auth.SetRequester(c, *requester)
		c.Next()
	}
}

// FirebaseAuth validates Firebase ID tokens and resolves the matching
// account row for the role. Same context contract as RequireAuth.
func FirebaseAuth(client *fbauth.Client, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authorization token"})
			c.Abort()
			return
		}

		decoded, err := client.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			c.Abort()
			return
		}

		email, _ := decoded.Claims["email"].(string)
		u, err := users.GetByEmail(c.Request.Context(), strings.ToLower(email))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
			c.Abort()
			return
		}

		auth.SetRequester(c, auth.Requester{ID: u.ID, Role: u.Role})
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
