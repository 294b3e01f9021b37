package auth_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newManager(clock *fakeClock) *auth.Manager {
	return auth.NewManager(testSecret, time.Hour, auth.WithClock(clock.Now))
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := newManager(clock)

	for _, email := range []string{"alice@example.com", "bob@example.com", "x+tag@sub.example.org"} {
		raw, err := m.Issue(auth.Identity{Email: email, Name: "Someone"})
		if err != nil {
			t.Fatalf("Issue(%s) error: %v", email, err)
		}

		id, err := m.Verify(raw)
		if err != nil {
			t.Fatalf("Verify(%s) error: %v", email, err)
		}
		if id.Email != email {
			t.Fatalf("got email %q, want %q", id.Email, email)
		}
	}
}

func TestIssue_RequiresEmail(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	if _, err := m.Issue(auth.Identity{Email: "  "}); err == nil {
		t.Fatalf("expected error for empty email")
	}
}

func TestIssue_WritesNoExpiry(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	raw, err := m.Issue(auth.Identity{Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims := &auth.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		t.Fatalf("ParseUnverified error: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("expected no exp claim, got %v", claims.ExpiresAt)
	}
	if claims.IssuedAt == nil {
		t.Fatalf("expected iat claim")
	}
}

func TestVerify_AlteredSignatureByte(t *testing.T) {
	clock := &fakeClock{t: time.Now().UTC()}
	m := newManager(clock)

	raw, err := m.Issue(auth.Identity{Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(raw, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	for i := range sig {
		altered := make([]byte, len(sig))
		copy(altered, sig)
		altered[i] ^= 0x01

		tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(altered)

		_, err := m.Verify(tampered)
		if !errors.Is(err, auth.ErrSignatureInvalid) {
			t.Fatalf("byte %d: expected ErrSignatureInvalid, got %v", i, err)
		}
	}
}

func TestVerify_AlteredPayloadFailsSignature(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	raw, err := m.Issue(auth.Identity{Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(raw, ".")
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"email":"admin@example.com","iat":` +
		`1700000000}`))

	_, err = m.Verify(parts[0] + "." + forged + "." + parts[2])
	if !errors.Is(err, auth.ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerify_OtherSecret(t *testing.T) {
	issuer := auth.NewManager("another-secret", time.Hour)
	verifier := auth.NewManager(testSecret, time.Hour)

	raw, err := issuer.Issue(auth.Identity{Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := verifier.Verify(raw); !errors.Is(err, auth.ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}
	m := newManager(clock)

	raw, err := m.Issue(auth.Identity{Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "just_issued", at: issuedAt, wantErr: nil},
		{name: "inside_window", at: issuedAt.Add(59 * time.Minute), wantErr: nil},
		{name: "window_boundary", at: issuedAt.Add(time.Hour), wantErr: auth.ErrExpired},
		{name: "long_after", at: issuedAt.Add(48 * time.Hour), wantErr: auth.ErrExpired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			clock.t = tt.at

			_, err := m.Verify(raw)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_PastIssuedAtBuiltByHand(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	claims := auth.Claims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(raw); !errors.Is(err, auth.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	missingEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	missingIat, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Email: "alice@example.com",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "garbage", raw: "not-a-token"},
		{name: "two_segments", raw: "abc.def"},
		{name: "bad_json", raw: "eyJhbGciOiJIUzI1NiJ9.bm90LWpzb24.c2ln"},
		{name: "missing_email", raw: missingEmail},
		{name: "missing_iat", raw: missingIat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.raw); !errors.Is(err, auth.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
		Email:            "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(raw); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}

func TestReason(t *testing.T) {
	if got := auth.Reason(auth.ErrExpired); got != "expired" {
		t.Fatalf("got %q", got)
	}
	if got := auth.Reason(auth.ErrSignatureInvalid); got != "signature_invalid" {
		t.Fatalf("got %q", got)
	}
	if got := auth.Reason(auth.ErrMalformed); got != "malformed" {
		t.Fatalf("got %q", got)
	}
}
