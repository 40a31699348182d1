package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	s := New("test-secret", DefaultTTL)

	token, err := s.Issue("64f1c2e8a1b2c3d4e5f60718", "merlin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "64f1c2e8a1b2c3d4e5f60718" {
		t.Errorf("expected user id to round-trip, got %q", claims.UserID)
	}
	if claims.Name != "merlin" {
		t.Errorf("expected name to round-trip, got %q", claims.Name)
	}
}

func TestVerifyExpired(t *testing.T) {
	s := New("test-secret", DefaultTTL)

	token, err := s.Issue("abc", "merlin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Move the clock past the 24h TTL.
	s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err = s.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	s := New("test-secret", DefaultTTL)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := s.Verify(token); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := New("secret-one", DefaultTTL).Issue("abc", "merlin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := New("secret-two", DefaultTTL).Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("expected ErrTokenMalformed on wrong secret, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("azkaban123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "azkaban123" {
		t.Fatal("password stored in clear")
	}

	if !CheckPassword(hash, "azkaban123") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "azkaban124") {
		t.Error("expected wrong password to fail")
	}
}
