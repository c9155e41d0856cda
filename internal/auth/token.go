package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates identity-provider bearer tokens.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for HS256 tokens signed with secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses the token and returns the principal it names.
func (v *TokenVerifier) Verify(tokenStr string) (*domain.Principal, error) {
	const op = "auth.verify"

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, domain.Unauthorized(op, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.Unauthorized(op, "invalid token claims")
	}

	sub := getClaimString(claims, "sub")
	if sub == "" {
		return nil, domain.Unauthorized(op, "token has no subject")
	}
	role := getClaimString(claims, "role")
	if role == "" {
		role = domain.RoleSponsor
	}

	return &domain.Principal{ID: sub, Role: role}, nil
}

// VerifyHeader extracts and verifies a "Bearer <token>" Authorization header.
func (v *TokenVerifier) VerifyHeader(header string) (*domain.Principal, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, domain.Unauthorized("auth.verify", "invalid authorization header")
	}
	return v.Verify(strings.TrimSpace(parts[1]))
}

// Issue signs a token for the principal.
func (v *TokenVerifier) Issue(p domain.Principal, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  p.ID,
		"role": p.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func getClaimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
