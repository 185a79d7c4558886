package service

import (
	"errors"
	"testing"
	"time"
)

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec("test-secret", "HS256", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

func TestTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.IssueAccessToken("a@x.com", "registered")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.Subject != "a@x.com" || claims.Role != "registered" {
		t.Fatalf("unexpected claims: subject=%q role=%q", claims.Subject, claims.Role)
	}
}

func TestTokenExpiryBoundary(t *testing.T) {
	codec := newTestCodec(t)

	issuedAt := time.Now()
	codec.now = func() time.Time { return issuedAt }

	token, err := codec.IssueAccessToken("a@x.com", "registered")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	// Just inside the TTL.
	codec.now = func() time.Time { return issuedAt.Add(15*time.Minute - time.Second) }
	if _, err := codec.Decode(token); err != nil {
		t.Fatalf("expected valid token inside TTL, got %v", err)
	}

	// Just past the TTL.
	codec.now = func() time.Time { return issuedAt.Add(15*time.Minute + time.Second) }
	if _, err := codec.Decode(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenTamperDetected(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.IssueAccessToken("a@x.com", "registered")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		flipped := byte('x')
		if token[i] == 'x' {
			flipped = 'y'
		}
		tampered := token[:i] + string(flipped) + token[i+1:]
		if _, err := codec.Decode(tampered); err == nil {
			t.Fatalf("tampered token at byte %d decoded successfully", i)
		}
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewTokenCodec("other-secret", "HS256", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}

	token, err := codec.IssueAccessToken("a@x.com", "registered")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := other.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	codec := newTestCodec(t)

	for _, input := range []string{"", "garbage", "a.b.c", "  "} {
		if _, err := codec.Decode(input); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Decode(%q): expected ErrInvalidToken, got %v", input, err)
		}
	}
}

func TestTokenCodecConfig(t *testing.T) {
	if _, err := NewTokenCodec("", "HS256", time.Minute, time.Hour); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured for empty secret, got %v", err)
	}
	if _, err := NewTokenCodec("secret", "RS256", time.Minute, time.Hour); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured for non-HMAC algorithm, got %v", err)
	}
	if _, err := NewTokenCodec("secret", "HS512", time.Minute, time.Hour); err != nil {
		t.Fatalf("HS512 should be accepted, got %v", err)
	}
}
