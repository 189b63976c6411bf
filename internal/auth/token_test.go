package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// fakeClock is a settable Clock for expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func tokenServices(t *testing.T, clock *fakeClock) map[string]TokenService {
	t.Helper()

	jwtSvc, err := NewJWTService(testSecret, 15*time.Minute, clock.Now)
	require.NoError(t, err)
	pasetoSvc, err := NewPasetoService(testSecret, 15*time.Minute, clock.Now)
	require.NoError(t, err)

	return map[string]TokenService{"jwt": jwtSvc, "paseto": pasetoSvc}
}

func TestTokenService_RoundTrip(t *testing.T) {
	clock := newFakeClock()

	for name, svc := range tokenServices(t, clock) {
		t.Run(name, func(t *testing.T) {
			subject := uuid.NewString()

			token, err := svc.Issue(subject, "alice")
			require.NoError(t, err)
			assert.NotContains(t, token, " ")

			claims, err := svc.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, subject, claims.Subject)
			assert.Equal(t, "alice", claims.Username)
			assert.True(t, claims.IssuedAt.Equal(clock.now))
			assert.True(t, claims.ExpiresAt.Equal(clock.now.Add(15*time.Minute)))
		})
	}
}

func TestTokenService_Expiry(t *testing.T) {
	for _, offset := range []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"just before expiry", 15*time.Minute - time.Second, nil},
		{"at expiry", 15 * time.Minute, ErrExpiredToken},
		{"after expiry", time.Hour, ErrExpiredToken},
	} {
		clock := newFakeClock()
		for name, svc := range tokenServices(t, clock) {
			t.Run(name+"/"+offset.name, func(t *testing.T) {
				start := clock.now
				defer func() { clock.now = start }()

				token, err := svc.Issue(uuid.NewString(), "alice")
				require.NoError(t, err)

				clock.now = start.Add(offset.elapsed)
				_, err = svc.Verify(token)
				if offset.wantErr == nil {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, offset.wantErr)
				}
			})
		}
	}
}

func TestTokenService_RejectsTampering(t *testing.T) {
	clock := newFakeClock()

	for name, svc := range tokenServices(t, clock) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.Issue(uuid.NewString(), "alice")
			require.NoError(t, err)

			i := len(token) / 2
			if token[i] == '.' {
				i++
			}
			replacement := "A"
			if token[i] == 'A' {
				replacement = "B"
			}
			tampered := token[:i] + replacement + token[i+1:]

			for _, bad := range []string{tampered, "", "garbage", token + "x", strings.ToUpper(token)} {
				_, err := svc.Verify(bad)
				assert.ErrorIs(t, err, ErrInvalidToken)
			}
		})
	}
}

func TestTokenService_RejectsOtherSecret(t *testing.T) {
	clock := newFakeClock()
	other := []byte("another-secret-of-sufficient-len")

	issuers := tokenServices(t, clock)
	otherJWT, err := NewJWTService(other, time.Minute, clock.Now)
	require.NoError(t, err)
	otherPaseto, err := NewPasetoService(other, time.Minute, clock.Now)
	require.NoError(t, err)
	verifiers := map[string]TokenService{"jwt": otherJWT, "paseto": otherPaseto}

	for name, svc := range issuers {
		token, err := svc.Issue(uuid.NewString(), "alice")
		require.NoError(t, err)

		_, err = verifiers[name].Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestJWTService_RejectsUnexpectedAlgorithms(t *testing.T) {
	clock := newFakeClock()
	svc, err := NewJWTService(testSecret, time.Minute, clock.Now)
	require.NoError(t, err)

	claims := jwtClaims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(clock.now),
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Minute)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RequiresExpiry(t *testing.T) {
	clock := newFakeClock()
	svc, err := NewJWTService(testSecret, time.Minute, clock.Now)
	require.NoError(t, err)

	claims := jwtClaims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(clock.now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenService(t *testing.T) {
	svc, err := NewTokenService("", testSecret, time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &JWTService{}, svc)

	svc, err = NewTokenService("paseto", testSecret, time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &PasetoService{}, svc)

	_, err = NewTokenService("saml", testSecret, time.Minute)
	assert.Error(t, err)

	_, err = NewTokenService("jwt", []byte("short"), time.Minute)
	assert.Error(t, err)

	_, err = NewTokenService("paseto", testSecret, 0)
	assert.Error(t, err)
}
