package jwt

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are carried by the admin session cookie.
type AdminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type Role string

const (
	RoleAdmin Role = "admin"
)
