package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/config"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/utils"
)

const principalKey = "principal"

// Principal is the authenticated caller extracted from the JWT. Role is the
// role the session was issued for, not everything the identity could be.
type Principal struct {
	ProfileID      uuid.UUID
	Identifier     string
	Role           models.Role
	AvailableRoles []models.Role
}

// Scope returns the row-level visibility scope for this session
func (p *Principal) Scope() models.Scope {
	return models.Scope{ProfileID: p.ProfileID, Role: p.Role}
}

// AuthMiddleware validates the bearer token and injects the principal
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1], cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(principalKey, &Principal{
			ProfileID:      claims.ProfileID,
			Identifier:     claims.Identifier,
			Role:           claims.Role,
			AvailableRoles: claims.AvailableRoles,
		})
		c.Next()
	}
}

// GetPrincipal pulls the authenticated caller from the gin context
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*Principal)
	return principal, ok
}
