package utils

import (
	"testing"
	"time"

	"foodbox_backend/pkg/config"
	"foodbox_backend/pkg/models"
)

func setTestConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{
		JWTSecret:    "test-jwt-secret",
		JWTExpiresIn: "7d",
	}
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestGenerateAndVerifyToken(t *testing.T) {
	setTestConfig(t)

	token, err := GenerateToken(42, "customer@example.com", models.RoleCustomer)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	if claims.ID != 42 {
		t.Errorf("expected id 42, got %d", claims.ID)
	}
	if claims.Email != "customer@example.com" {
		t.Errorf("expected email to round-trip, got %q", claims.Email)
	}
	if claims.Role != models.RoleCustomer {
		t.Errorf("expected role CUSTOMER, got %s", claims.Role)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	setTestConfig(t)

	token, err := GenerateToken(1, "a@example.com", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	config.AppConfig.JWTSecret = "different-secret"
	if _, err := VerifyToken(token); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	setTestConfig(t)

	if _, err := VerifyToken("not.a.token"); err == nil {
		t.Fatal("expected garbage token to fail verification")
	}
}

func TestGetTokenExpiration(t *testing.T) {
	setTestConfig(t)
	config.AppConfig.JWTExpiresIn = "30m"

	token, err := GenerateToken(1, "a@example.com", models.RoleCustomer)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	expiry, err := GetTokenExpiration(token)
	if err != nil {
		t.Fatalf("GetTokenExpiration: %v", err)
	}

	until := time.Until(expiry)
	if until <= 25*time.Minute || until > 30*time.Minute {
		t.Errorf("expected expiry about 30m out, got %v", until)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := ComparePassword(hash, "s3cret-password"); err != nil {
		t.Errorf("expected matching password to verify: %v", err)
	}
	if err := ComparePassword(hash, "wrong-password"); err == nil {
		t.Error("expected mismatched password to fail")
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	if err := CheckPasswordStrength("12345"); err == nil {
		t.Error("expected short password to be rejected")
	}
	if err := CheckPasswordStrength("123456"); err != nil {
		t.Errorf("expected 6-char password to pass: %v", err)
	}
}
