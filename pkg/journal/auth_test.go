package journal_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/simulate"
)

type capturingSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *capturingSender) SendCode(_ context.Context, u journal.User, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.codes == nil {
		c.codes = make(map[string]string)
	}
	c.codes[u.Email] = code
	return nil
}

func (c *capturingSender) code(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[email]
}

func (f *fixture) seedUser(t *testing.T, email, password string, mfa bool) journal.User {
	t.Helper()
	hash, err := f.svc.Auth.HashPassword(password)
	require.NoError(t, err)
	u := journal.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Profile:      journal.Profile{DisplayName: "Test"},
		Subscription: journal.Subscription{Plan: "free", Status: "active"},
		MFAEnabled:   mfa,
		CreatedAt:    testNow,
	}
	require.NoError(t, f.store.InsertUser(context.Background(), u))
	return u
}

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	sess, err := f.svc.Auth.Register(ctx, journal.RegisterInput{Email: "new@example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "new", sess.User.Profile.DisplayName)
	assert.Equal(t, "free", sess.User.Subscription.Plan)
	assert.Equal(t, testNow.Add(24*time.Hour), sess.ExpiresAt)

	login, err := f.svc.Auth.Login(ctx, "new@example.com", "longenough")
	require.NoError(t, err)
	assert.False(t, login.MFARequired)
	assert.Equal(t, sess.User.ID, login.User.ID)

	u, err := f.svc.Auth.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, u.ID)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedUser(t, "user@example.com", "password123", false)

	tests := []struct {
		name string
		in   journal.RegisterInput
		want error
	}{
		{"bad email", journal.RegisterInput{Email: "not-an-email", Password: "longenough"}, journal.ErrInvalidEmail},
		{"short password", journal.RegisterInput{Email: "a@example.com", Password: "short"}, journal.ErrWeakPassword},
		{"taken email", journal.RegisterInput{Email: "user@example.com", Password: "longenough"}, journal.ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Auth.Register(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedUser(t, "user@example.com", "password123", false)

	_, wrongPassword := f.svc.Auth.Login(ctx, "user@example.com", "wrongpass")
	_, unknownEmail := f.svc.Auth.Login(ctx, "nobody@example.com", "wrongpass")

	assert.ErrorIs(t, wrongPassword, journal.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, journal.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_UnknownEmailStillComparesHash(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedUser(t, "user@example.com", "password123", false)

	var compared int
	journal.SetPasswordCompare(f.svc.Auth, func(hash, password []byte) error {
		compared++
		assert.NotEmpty(t, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	})

	_, err := f.svc.Auth.Login(ctx, "user@example.com", "wrongpass")
	assert.ErrorIs(t, err, journal.ErrInvalidCredentials)
	assert.Equal(t, 1, compared)

	_, err = f.svc.Auth.Login(ctx, "nobody@example.com", "wrongpass")
	assert.ErrorIs(t, err, journal.ErrInvalidCredentials)
	assert.Equal(t, 2, compared, "unknown emails pay for a hash comparison too")

	sso, err := f.svc.Auth.SSOLogin(ctx, "github", "sso@example.com")
	require.NoError(t, err)
	_, err = f.svc.Auth.Login(ctx, sso.User.Email, "")
	assert.ErrorIs(t, err, journal.ErrInvalidCredentials)
	assert.Equal(t, 3, compared)
}

func TestLogin_SimulatedFailureAfterCredentialCheck(t *testing.T) {
	f := newFixture(t, failing())
	ctx := context.Background()
	f.seedUser(t, "user@example.com", "password123", false)

	_, err := f.svc.Auth.Login(ctx, "user@example.com", "wrongpass")
	assert.ErrorIs(t, err, journal.ErrInvalidCredentials)

	_, err = f.svc.Auth.Login(ctx, "user@example.com", "password123")
	assert.ErrorIs(t, err, simulate.ErrNetwork)
}

func TestLogin_MFAFlow(t *testing.T) {
	sender := &capturingSender{}
	f := newFixture(t, nil, journal.WithCodeSender(sender))
	ctx := context.Background()
	u := f.seedUser(t, "mfa@example.com", "password123", true)

	sess, err := f.svc.Auth.Login(ctx, "mfa@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, sess.MFARequired)
	assert.Empty(t, sess.Token)
	require.NotEmpty(t, sess.ChallengeID)

	code := sender.code("mfa@example.com")
	require.Len(t, code, 6)

	_, err = f.svc.Auth.VerifyMFA(ctx, sess.ChallengeID, "000000x")
	assert.ErrorIs(t, err, journal.ErrInvalidMFACode)

	done, err := f.svc.Auth.VerifyMFA(ctx, sess.ChallengeID, code)
	require.NoError(t, err)
	assert.Equal(t, u.ID, done.User.ID)
	assert.NotEmpty(t, done.Token)

	_, err = f.svc.Auth.VerifyMFA(ctx, sess.ChallengeID, code)
	assert.ErrorIs(t, err, journal.ErrInvalidMFACode, "a challenge can only be used once")
}

func TestVerifyMFA_ChallengeBurnsAfterTooManyAttempts(t *testing.T) {
	sender := &capturingSender{}
	f := newFixture(t, nil, journal.WithCodeSender(sender))
	ctx := context.Background()
	f.seedUser(t, "mfa@example.com", "password123", true)

	sess, err := f.svc.Auth.Login(ctx, "mfa@example.com", "password123")
	require.NoError(t, err)
	code := sender.code("mfa@example.com")

	wrong := "999999"
	if code == wrong {
		wrong = "000000"
	}
	for i := 0; i < 5; i++ {
		_, err = f.svc.Auth.VerifyMFA(ctx, sess.ChallengeID, wrong)
		require.ErrorIs(t, err, journal.ErrInvalidMFACode)
	}
	_, err = f.svc.Auth.VerifyMFA(ctx, sess.ChallengeID, code)
	assert.ErrorIs(t, err, journal.ErrInvalidMFACode)
}

func TestVerifyMFA_ExpiredChallenge(t *testing.T) {
	sender := &capturingSender{}
	f := newFixture(t, nil, journal.WithCodeSender(sender))
	ctx := context.Background()
	f.seedUser(t, "mfa@example.com", "password123", true)

	sess, err := f.svc.Auth.Login(ctx, "mfa@example.com", "password123")
	require.NoError(t, err)

	f.clock.Set(testNow.Add(6 * time.Minute))
	_, err = f.svc.Auth.VerifyMFA(ctx, sess.ChallengeID, sender.code("mfa@example.com"))
	assert.ErrorIs(t, err, journal.ErrInvalidMFACode)
}

func TestSSOLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Auth.SSOLogin(ctx, "Google", "sso@example.com")
	require.NoError(t, err)
	assert.Equal(t, "google", first.User.SSOProvider)
	assert.NotEmpty(t, first.Token)

	again, err := f.svc.Auth.SSOLogin(ctx, "google", "sso@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	_, err = f.svc.Auth.SSOLogin(ctx, "myspace", "sso@example.com")
	assert.ErrorIs(t, err, journal.ErrUnsupportedProvider)

	_, err = f.svc.Auth.SSOLogin(ctx, "github", "sso@example.com")
	assert.ErrorIs(t, err, journal.ErrInvalidCredentials, "linked to google, not github")
}

func TestSSOLogin_RefusesPasswordAccounts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedUser(t, "ana@example.com", "password123", false)

	sess, err := f.svc.Auth.SSOLogin(ctx, "github", "ana@example.com")
	assert.ErrorIs(t, err, journal.ErrInvalidCredentials)
	assert.Empty(t, sess.Token)
}

func TestSSOLogin_MFAAccountGetsChallenge(t *testing.T) {
	sender := &capturingSender{}
	f := newFixture(t, nil, journal.WithCodeSender(sender))
	ctx := context.Background()

	u := journal.User{
		ID:          uuid.New(),
		Email:       "mfa-sso@example.com",
		SSOProvider: "apple",
		MFAEnabled:  true,
		CreatedAt:   testNow,
	}
	require.NoError(t, f.store.InsertUser(ctx, u))

	sess, err := f.svc.Auth.SSOLogin(ctx, "apple", u.Email)
	require.NoError(t, err)
	assert.True(t, sess.MFARequired)
	assert.Empty(t, sess.Token)
	require.NotEmpty(t, sess.ChallengeID)

	done, err := f.svc.Auth.VerifyMFA(ctx, sess.ChallengeID, sender.code(u.Email))
	require.NoError(t, err)
	assert.Equal(t, u.ID, done.User.ID)
	assert.NotEmpty(t, done.Token)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	sess, err := f.svc.Auth.Register(ctx, journal.RegisterInput{Email: "new@example.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = f.svc.Auth.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, journal.ErrInvalidToken)

	other := newFixture(t, nil, journal.WithTokenSecret([]byte("another-secret")))
	_, err = other.svc.Auth.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, journal.ErrInvalidToken)

	f.clock.Set(testNow.Add(25 * time.Hour))
	_, err = f.svc.Auth.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, journal.ErrInvalidToken)
}
