package utils

import (
	"testing"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateJWT(42, secret)
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}

	got, err := ParseUserID(tok, secret)
	if err != nil {
		t.Fatalf("ParseUserID error: %v", err)
	}
	if got != 42 {
		t.Fatalf("user id mismatch: got %d want 42", got)
	}
}

func TestParseUserID_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateJWT(7, []byte("right-secret"))
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}

	if _, err := ParseUserID(tok, []byte("wrong-secret")); err == nil {
		t.Fatalf("expected error for wrong secret, got nil")
	}
}

func TestParseUserID_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseUserID("not.a.jwt", []byte("k")); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
