package utils

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// JWT Secret Key
var JwtKey = []byte("default_admin_secret_key_123") // Overridden from SECRET_KEY in .env

// SessionCookie is the name of the http-only cookie carrying the admin token.
const SessionCookie = "admin_token"

// SessionDuration is how long an issued token stays valid.
const SessionDuration = 24 * time.Hour

// Claims represents the JWT claims for a back-office session
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	jwt.StandardClaims
}

// GenerateJWT generates a signed session token for an operator
func GenerateJWT(email, role, name string) (string, error) {
	expirationTime := time.Now().Add(SessionDuration)
	claims := &Claims{
		Email: email,
		Role:  role,
		Name:  name,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(JwtKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseToken validates a session token and returns its claims
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("token is not valid", jwt.ValidationErrorClaimsInvalid)
	}
	return claims, nil
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IsHashedPassword reports whether a stored credential is a bcrypt hash.
// Records written before hashing was introduced hold the raw password.
func IsHashedPassword(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// VerifyPassword compares a candidate password against a stored credential.
// Hashed credentials go through bcrypt; legacy plaintext records are compared
// in constant time so they can be rehashed on the next successful login.
func VerifyPassword(stored, candidate string) bool {
	if IsHashedPassword(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
