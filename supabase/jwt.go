package supabase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

type tokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// parseAccessToken reads sub and exp without verifying the signature. The
// token came straight from the auth server and is only inspected locally.
func parseAccessToken(accessToken string) (tokenClaims, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return tokenClaims{}, fmt.Errorf("invalid JWT format")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaims{}, fmt.Errorf("invalid JWT claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return tokenClaims{}, fmt.Errorf("missing sub in token")
	}

	out := tokenClaims{Subject: sub}
	// MapClaims decodes numbers as float64
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
