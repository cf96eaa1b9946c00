package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated user id. The subject is stored as a
// string per RFC 7519 but always produced from and parsed back to an
// integer id, so handlers never compare mixed types.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a signed token bound to the user id
func GenerateJWT(userID uint, email string, secret string, expire time.Duration) (string, error) {
	claims := Claims{
		UserID: strconv.FormatUint(uint64(userID), 10),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT parses and validates a token string
func ValidateJWT(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// SubjectUserID normalizes the string-typed token subject to the integer
// user id the rest of the system works with.
func (c *Claims) SubjectUserID() (uint, error) {
	id, err := strconv.ParseUint(c.UserID, 10, 64)
	if err != nil {
		return 0, errors.New("invalid user id in token")
	}
	return uint(id), nil
}
