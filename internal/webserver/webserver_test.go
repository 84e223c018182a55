package webserver

import (
	"testing"
	"time"

	jwtv4 "github.com/golang-jwt/jwt/v4"
)

func TestIssueToken(t *testing.T) {
	secret := "test-secret"
	raw, err := IssueToken(secret, "u1", "Asha", "manager", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	parsed, err := jwtv4.Parse(raw, func(token *jwtv4.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := parsed.Claims.(jwtv4.MapClaims)
	if !ok || !parsed.Valid {
		t.Fatalf("token not valid")
	}
	if claims["uid"] != "u1" || claims["name"] != "Asha" || claims["role"] != "manager" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestIssueTokenRejectsWrongSecret(t *testing.T) {
	raw, err := IssueToken("secret-a", "u1", "Asha", "manager", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := jwtv4.Parse(raw, func(token *jwtv4.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	}); err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}
