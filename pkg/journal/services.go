// Package journal holds the domain services of the journaling backend:
// entries, analysis, tags, auth, reminders and preferences. Every service
// call validates its input, passes through the latency/failure model and only
// then touches the store.
package journal

import (
	"context"
	"crypto/rand"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/unowned-ai/eunoia/pkg/simulate"
)

// Simulator injects latency and transient failures. *simulate.Model satisfies it.
type Simulator interface {
	Request(ctx context.Context, b simulate.Band) error
}

// Generator produces free text from a prompt, typically through a remote model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CodeSender delivers a one-time MFA code to the user.
type CodeSender interface {
	SendCode(ctx context.Context, u User, code string) error
}

// Services groups every domain service over one store.
type Services struct {
	Auth        *AuthService
	Entries     *EntryService
	AI          *AIService
	Tags        *TagService
	Reminders   *ReminderService
	Preferences *PreferencesService
}

type options struct {
	clock       func() time.Time
	rnd         *lockedRand
	logger      logrus.FieldLogger
	generator   Generator
	codeSender  CodeSender
	tokenSecret []byte
	tokenTTL    time.Duration
	bcryptCost  int
}

// Option configures NewServices.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithRand injects the random source used for prompts and MFA codes.
func WithRand(r *mathrand.Rand) Option {
	return func(o *options) { o.rnd = &lockedRand{r: r} }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithGenerator enables generated summaries, prompts and suggestions.
func WithGenerator(g Generator) Option {
	return func(o *options) { o.generator = g }
}

func WithCodeSender(s CodeSender) Option {
	return func(o *options) { o.codeSender = s }
}

// WithTokenSecret sets the HS256 signing key for session tokens.
func WithTokenSecret(secret []byte) Option {
	return func(o *options) { o.tokenSecret = secret }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(o *options) { o.tokenTTL = ttl }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

// NewServices wires every service to store. A nil sim disables latency and failures.
func NewServices(store Store, sim Simulator, opts ...Option) *Services {
	o := &options{
		clock:      func() time.Time { return time.Now().UTC() },
		logger:     logrus.StandardLogger(),
		tokenTTL:   24 * time.Hour,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rnd == nil {
		o.rnd = &lockedRand{r: mathrand.New(mathrand.NewSource(time.Now().UnixNano()))}
	}
	if len(o.tokenSecret) == 0 {
		o.tokenSecret = make([]byte, 32)
		_, _ = rand.Read(o.tokenSecret)
	}
	if o.codeSender == nil {
		o.codeSender = logCodeSender{log: o.logger}
	}
	if sim == nil {
		sim = (*simulate.Model)(nil)
	}

	return &Services{
		Auth:        &AuthService{
			users:      store,
			sim:        sim,
			opts:       o,
			challenges: make(map[string]mfaChallenge),
			compare:    bcrypt.CompareHashAndPassword,
		},
		Entries:     &EntryService{entries: store, sim: sim, opts: o},
		AI:          &AIService{sim: sim, opts: o},
		Tags:        &TagService{tags: store, entries: store, sim: sim, opts: o},
		Reminders:   &ReminderService{reminders: store, sim: sim, opts: o},
		Preferences: &PreferencesService{prefs: store, sim: sim, opts: o},
	}
}

type lockedRand struct {
	mu sync.Mutex
	r  *mathrand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)
}

type logCodeSender struct {
	log logrus.FieldLogger
}

func (s logCodeSender) SendCode(_ context.Context, u User, code string) error {
	s.log.WithFields(logrus.Fields{"user": u.Email, "code": code}).Info("verification code issued")
	return nil
}
