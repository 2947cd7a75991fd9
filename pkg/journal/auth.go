package journal

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/unowned-ai/eunoia/pkg/simulate"
)

const (
	tokenIssuer       = "eunoia"
	minPasswordLength = 8
	mfaCodeTTL        = 5 * time.Minute
	mfaMaxAttempts    = 5
	defaultPlan       = "free"
)

// SSOProviders lists the accepted single sign-on providers.
var SSOProviders = []string{"google", "apple", "github"}

type mfaChallenge struct {
	userID   uuid.UUID
	code     string
	expires  time.Time
	attempts int
}

// AuthService registers users, checks credentials and issues signed session tokens.
type AuthService struct {
	users UserRepository
	sim   Simulator
	opts  *options

	mu         sync.Mutex
	challenges map[string]mfaChallenge

	// compare checks a password against a bcrypt hash.
	compare   func(hash, password []byte) error
	dummyOnce sync.Once
	dummyHash []byte
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks email and password. Unknown emails and wrong passwords fail
// identically with ErrInvalidCredentials. Users with MFA enabled get a
// challenge instead of a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		u = User{}
	case err != nil:
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	if !s.checkPassword(u, password) {
		return Session{}, ErrInvalidCredentials
	}
	if err := s.sim.Request(ctx, simulate.Medium); err != nil {
		return Session{}, err
	}

	if u.MFAEnabled {
		return s.challenge(ctx, u)
	}
	s.opts.logger.WithField("user", u.ID).Info("user logged in")
	return s.issue(u)
}

// VerifyMFA completes a login that returned MFARequired.
func (s *AuthService) VerifyMFA(ctx context.Context, challengeID, code string) (Session, error) {
	s.mu.Lock()
	c, ok := s.challenges[challengeID]
	if ok && s.opts.clock().After(c.expires) {
		delete(s.challenges, challengeID)
		ok = false
	}
	if ok && c.code != strings.TrimSpace(code) {
		c.attempts++
		if c.attempts >= mfaMaxAttempts {
			delete(s.challenges, challengeID)
		} else {
			s.challenges[challengeID] = c
		}
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return Session{}, ErrInvalidMFACode
	}

	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return Session{}, err
	}
	u, err := s.users.GetUser(ctx, c.userID)
	if err != nil {
		return Session{}, fmt.Errorf("get user: %w", err)
	}

	s.mu.Lock()
	delete(s.challenges, challengeID)
	s.mu.Unlock()
	return s.issue(u)
}

// Register creates a password account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := strings.TrimSpace(in.Email)
	if !validEmail(email) {
		return Session{}, ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLength {
		return Session{}, ErrWeakPassword
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return Session{}, err
	}
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}
	if err := s.sim.Request(ctx, simulate.Medium); err != nil {
		return Session{}, err
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = localPart(email)
	}
	u := s.newUser(email, displayName)
	u.PasswordHash = hash
	if err := s.users.InsertUser(ctx, u); err != nil {
		return Session{}, fmt.Errorf("insert user: %w", err)
	}
	s.opts.logger.WithField("user", u.ID).Info("user registered")
	return s.issue(u)
}

// SSOLogin signs in through an external provider, creating the account on
// first use. An existing account must have been created through the same
// provider; accounts with MFA get a challenge instead of a token.
func (s *AuthService) SSOLogin(ctx context.Context, provider, email string) (Session, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !supportedProvider(provider) {
		return Session{}, ErrUnsupportedProvider
	}
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return Session{}, ErrInvalidEmail
	}

	u, err := s.users.FindUserByEmail(ctx, email)
	found := err == nil
	switch {
	case errors.Is(err, ErrUserNotFound):
	case err != nil:
		return Session{}, fmt.Errorf("find user: %w", err)
	case u.SSOProvider != provider || u.PasswordHash != "":
		return Session{}, ErrInvalidCredentials
	}
	if err := s.sim.Request(ctx, simulate.Medium); err != nil {
		return Session{}, err
	}

	if !found {
		u = s.newUser(email, localPart(email))
		u.SSOProvider = provider
		if err := s.users.InsertUser(ctx, u); err != nil {
			return Session{}, fmt.Errorf("insert user: %w", err)
		}
		s.opts.logger.WithFields(logrus.Fields{"user": u.ID, "provider": provider}).Info("user registered via sso")
	}
	if u.MFAEnabled {
		return s.challenge(ctx, u)
	}
	return s.issue(u)
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.opts.tokenSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.opts.clock),
	)
	if err != nil {
		return User{}, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return User{}, ErrInvalidToken
	}
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidToken
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// checkPassword compares password with the hash of u. A user without a hash
// is compared against a throwaway hash of the same cost so unknown emails
// take as long as wrong passwords.
func (s *AuthService) checkPassword(u User, password string) bool {
	hash := []byte(u.PasswordHash)
	if len(hash) == 0 {
		s.dummyOnce.Do(func() {
			s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.opts.bcryptCost)
		})
		_ = s.compare(s.dummyHash, []byte(password))
		return false
	}
	return s.compare(hash, []byte(password)) == nil
}

func (s *AuthService) challenge(ctx context.Context, u User) (Session, error) {
	code := fmt.Sprintf("%06d", s.opts.rnd.Intn(1000000))
	id := uuid.NewString()

	s.mu.Lock()
	s.challenges[id] = mfaChallenge{userID: u.ID, code: code, expires: s.opts.clock().Add(mfaCodeTTL)}
	s.mu.Unlock()

	if err := s.opts.codeSender.SendCode(ctx, u, code); err != nil {
		return Session{}, fmt.Errorf("send verification code: %w", err)
	}
	return Session{User: u, MFARequired: true, ChallengeID: id}, nil
}

func (s *AuthService) issue(u User) (Session, error) {
	now := s.opts.clock()
	expires := now.Add(s.opts.tokenTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   u.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.opts.tokenSecret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{User: u, Token: token, ExpiresAt: expires}, nil
}

func (s *AuthService) newUser(email, displayName string) User {
	return User{
		ID:           uuid.New(),
		Email:        email,
		Profile:      Profile{DisplayName: displayName},
		Subscription: Subscription{Plan: defaultPlan, Status: "active"},
		CreatedAt:    s.opts.clock(),
	}
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case errors.Is(err, ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("find user: %w", err)
	}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

func supportedProvider(p string) bool {
	for _, sp := range SSOProviders {
		if sp == p {
			return true
		}
	}
	return false
}
