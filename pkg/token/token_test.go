package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify(t *testing.T) {
	issued := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	svc := NewService("test-secret", 7*24*time.Hour, WithClock(fixedClock(issued)))

	raw, err := svc.Issue("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	identifier, err := svc.IdentifierOf(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", identifier)
}

func TestIssueRequiresIdentifier(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.Issue("")
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	raw, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	_, err = verifier.IdentifierOf(raw)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.IdentifierOf("not-a-token")
	assert.Error(t, err)
}

func TestValidityWindowIsHalfOpen(t *testing.T) {
	issued := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	validity := 7 * 24 * time.Hour

	issuer := NewService("test-secret", validity, WithClock(fixedClock(issued)))
	raw, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	cases := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{"at issuance", issued, false},
		{"just before expiry", issued.Add(validity - time.Second), false},
		{"exactly at expiry", issued.Add(validity), true},
		{"after expiry", issued.Add(validity + time.Hour), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := NewService("test-secret", validity, WithClock(fixedClock(tc.at)))
			identifier, err := verifier.IdentifierOf(raw)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "alice@example.com", identifier)
			}
		})
	}
}
