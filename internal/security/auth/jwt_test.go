package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "agrimarket")

	token, err := tm.GenerateToken("acc-1", "ramesh@farm.com", "farmer", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.AccountID != "acc-1" || claims.Email != "ramesh@farm.com" || claims.Role != "farmer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", "agrimarket")
	other := NewTokenManager("secret-b", "agrimarket")

	token, err := tm.GenerateToken("acc-1", "x@x.com", "buyer", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatalf("expected validation to fail with the wrong secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "agrimarket")

	token, err := tm.GenerateToken("acc-1", "x@x.com", "seller", -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := tm.ValidateToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("extract = %q, %v", token, err)
	}

	if _, err := ExtractToken("abc.def.ghi"); err == nil {
		t.Fatalf("expected error without Bearer prefix")
	}
	if _, err := ExtractToken(""); err == nil {
		t.Fatalf("expected error for empty header")
	}
}
