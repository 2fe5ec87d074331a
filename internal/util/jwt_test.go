package util

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "secreto-de-prueba"

	token, err := GenerateToken(secret, 42, "sesion-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.SessionID != "sesion-1" {
		t.Errorf("SessionID = %q, want sesion-1", claims.SessionID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secreto-a", 1, "s", time.Hour)
	if _, err := ParseToken("secreto-b", token); err == nil {
		t.Error("token signed with another secret should not parse")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, _ := GenerateToken("secreto", 1, "s", -time.Hour)
	if _, err := ParseToken("secreto", token); err == nil {
		t.Error("expired token should not parse")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("secreto", "no-es-un-token"); err == nil {
		t.Error("garbage should not parse")
	}
}
