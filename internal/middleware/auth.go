package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextSalonID  = "salonID"
	ContextUserRole = "userRole"
)

// Console roles. Owners manage the salon; staff run the daily agenda.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// ConsoleClaims is the payload of a console token. sub is the numeric user id.
type ConsoleClaims struct {
	UserID  uint   `json:"sub"`
	SalonID uint   `json:"salonId"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

func knownRole(role string) bool {
	return role == RoleOwner || role == RoleStaff
}

// AuthMiddleware scopes console requests to the salon named in the token.
// Tokens are issued elsewhere; they must be HS256, carry an expiry and name
// a user, a salon and a known role.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	key := func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}

	return func(c *gin.Context) {
		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		var claims ConsoleClaims
		if _, err := parser.ParseWithClaims(raw, &claims, key); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		if claims.UserID == 0 || claims.SalonID == 0 || !knownRole(claims.Role) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextSalonID, claims.SalonID)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles. It runs
// after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(ContextUserRole)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
