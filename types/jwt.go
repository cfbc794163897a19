package types

import (
	"github.com/golang-jwt/jwt/v5"

	"homehelp-server/models"
)

// Claims are the JWT claims shared between token issuing and the auth
// middleware.
type Claims struct {
	UserID uint            `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}
