package tokens

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

type jwtCustomClaims struct {
	Pubkey string `json:"pubkey"`

	jwt.StandardClaims
}

// GenerateSessionToken : Generate a session token for the admin pubkey
func GenerateSessionToken(secret []byte, expiry time.Duration, pubkey string) (string, time.Time, error) {
	expiresAt := time.Now().Add(expiry)
	claims := &jwtCustomClaims{
		pubkey,
		jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return t, expiresAt, nil
}

// ParseSessionToken returns the pubkey of a valid, unexpired session token
func ParseSessionToken(secret []byte, tokenString string) (string, error) {
	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected Signing Method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Pubkey == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Pubkey, nil
}

// SessionToken reads the token from the session cookie or a bearer header
func SessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(common.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Middleware rejects requests without a session of the admin pubkey.
// With an empty admin pubkey the panel runs without authentication.
func Middleware(secret []byte, adminPubkey string) echo.MiddlewareFunc {
	if adminPubkey == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionToken(c)
			if token == "" {
				return c.JSON(http.StatusForbidden, responses.NotAuthenticatedError)
			}
			pubkey, err := ParseSessionToken(secret, token)
			if err != nil || pubkey != adminPubkey {
				c.Logger().Debugf("Rejected session token: %v", err)
				return c.JSON(http.StatusForbidden, responses.NotAuthenticatedError)
			}
			c.Set(common.AdminPubkeyContextKey, pubkey)
			return next(c)
		}
	}
}
