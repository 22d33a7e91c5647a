package token

import (
	"errors"
	"testing"
	"time"
)

func newTestSigner(t *testing.T, now func() time.Time) *Signer {
	t.Helper()
	signer, err := NewSigner([]byte("test-secret"), time.Hour, now)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return signer
}

func TestNewSignerRequiresSecret(t *testing.T) {
	if _, err := NewSigner(nil, 0, nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	signer := newTestSigner(t, nil)

	tokenString, err := signer.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := signer.Verify(tokenString)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("expected user-123, got %q", userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer := newTestSigner(t, nil)
	other, err := NewSigner([]byte("different-secret"), time.Hour, nil)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	tokenString, err := signer.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := other.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	signer := newTestSigner(t, func() time.Time { return clock })

	tokenString, err := signer.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock = issuedAt.Add(2 * time.Hour)
	if _, err := signer.Verify(tokenString); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer := newTestSigner(t, nil)

	for _, tokenString := range []string{"", "   ", "not.a.jwt"} {
		if _, err := signer.Verify(tokenString); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", tokenString, err)
		}
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	signer := newTestSigner(t, nil)
	if _, err := signer.Issue("  "); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
