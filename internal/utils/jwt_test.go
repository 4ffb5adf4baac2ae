package utils

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("secret", time.Hour)

	tok, err := s.Generate("sid-1", "doctor")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	claims, err := s.Validate(tok)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Subject != "sid-1" || claims.Role != "doctor" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestSignerRejectsForeignAndExpired(t *testing.T) {
	s := NewSigner("secret", time.Minute)
	other := NewSigner("other", time.Minute)

	tok, _ := other.Generate("sid-1", "patient")
	if _, err := s.Validate(tok); err == nil {
		t.Error("token signed with another secret must be rejected")
	}

	past := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return past }
	old, _ := s.Generate("sid-2", "patient")
	s.now = time.Now
	if _, err := s.Validate(old); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestSignerWithoutSecret(t *testing.T) {
	s := NewSigner("", time.Minute)
	if _, err := s.Generate("x", ""); !errors.Is(err, ErrNoSecret) {
		t.Errorf("err = %v, want ErrNoSecret", err)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("pw123", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPasswordHash("pw123", hash) {
		t.Error("matching password rejected")
	}
	if CheckPasswordHash("pw124", hash) {
		t.Error("wrong password accepted")
	}
}
