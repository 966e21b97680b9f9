package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestSecret signs tokens minted by Token.
const TestSecret = "test-secret"

// Token mints an HS256 token for userID that is valid for an hour.
func Token(t *testing.T, userID string) string {
	t.Helper()
	return SignedToken(t, TestSecret, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
}

// SignedToken signs arbitrary claims with secret.
func SignedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// Bearer returns the Authorization header value for userID.
func Bearer(t *testing.T, userID string) string {
	t.Helper()
	return "Bearer " + Token(t, userID)
}
