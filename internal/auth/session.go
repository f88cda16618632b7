package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/delay"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/user"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/metrics"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/storage"
)

// SessionKey holds the logged-in profile; absent when nobody is logged in.
const SessionKey = "sneakverse-current-user"

type SessionRepository = storage.Repository[*user.Profile]

func NoSession() *user.Profile { return nil }

// Store is one visitor's identity. Operations on the same Store are
// serialized, including their simulated latency.
type Store struct {
	mu      sync.Mutex
	loading atomic.Bool
	current *user.Profile

	dir         *Directory
	repo        *SessionRepository
	hasher      Hasher
	delay       delay.Delayer
	adminEmails map[string]bool
	notifier    notify.Notifier
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

type Options struct {
	Hasher Hasher
	Delay  delay.Delayer
	// AdminEmails register with the admin flag set.
	AdminEmails []string
	Notifier    notify.Notifier
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// NewStore restores the persisted session, if any.
func NewStore(ctx context.Context, dir *Directory, repo *SessionRepository, opts Options) (*Store, error) {
	current, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Delay == nil {
		opts.Delay = delay.None{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	admins := make(map[string]bool, len(opts.AdminEmails))
	for _, e := range opts.AdminEmails {
		admins[user.NormalizeEmail(e)] = true
	}
	return &Store{
		current:     current,
		dir:         dir,
		repo:        repo,
		hasher:      opts.Hasher,
		delay:       opts.Delay,
		adminEmails: admins,
		notifier:    opts.Notifier,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}, nil
}

// Register creates the account and logs it in.
func (s *Store) Register(ctx context.Context, email, password, firstName, lastName string) (user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.busy()()

	if err := s.delay.Wait(ctx); err != nil {
		return user.Profile{}, s.fail(ctx, "register", "Registration failed", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user.Profile{}, s.fail(ctx, "register", "Registration failed", fmt.Errorf("hash password: %w", err))
	}

	// past the delay the account and session are written together
	ctx = context.WithoutCancel(ctx)
	acc, err := s.dir.Create(ctx, user.Account{
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		IsAdmin:      s.adminEmails[user.NormalizeEmail(email)],
	})
	if err != nil {
		return user.Profile{}, s.fail(ctx, "register", "Registration failed", err)
	}

	profile := acc.Profile()
	if err := s.setSession(ctx, &profile); err != nil {
		return user.Profile{}, s.fail(ctx, "register", "Registration failed", err)
	}

	s.metrics.AuthAttempt("register", nil, "")
	s.logger.Info("account registered", zap.String("account_id", acc.ID))
	s.notifier.Notify(ctx, notify.Success("Account created successfully!", "Welcome to SneakVerse"))
	return profile, nil
}

// Login leaves the current session untouched on any failure.
func (s *Store) Login(ctx context.Context, email, password string) (user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.busy()()

	if err := s.delay.Wait(ctx); err != nil {
		return user.Profile{}, s.fail(ctx, "login", "Login failed", err)
	}

	ctx = context.WithoutCancel(ctx)
	acc, err := s.dir.ByEmail(ctx, email)
	if err != nil {
		return user.Profile{}, s.fail(ctx, "login", "Login failed", err)
	}
	if !s.hasher.Check(acc.PasswordHash, password) {
		return user.Profile{}, s.fail(ctx, "login", "Login failed", ErrInvalidCredential)
	}

	profile := acc.Profile()
	if err := s.setSession(ctx, &profile); err != nil {
		return user.Profile{}, s.fail(ctx, "login", "Login failed", err)
	}

	s.metrics.AuthAttempt("login", nil, "")
	s.notifier.Notify(ctx, notify.Success("Welcome back!", "Logged in as "+profile.FullName()))
	return profile, nil
}

// Logout always succeeds. A storage error is logged; the in-memory session
// is cleared regardless.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error("failed to clear persisted session", zap.Error(err))
	}

	s.metrics.AuthAttempt("logout", nil, "")
	s.notifier.Notify(ctx, notify.Info("Logged out", "You have been successfully logged out"))
}

// UpdateProfile merges the non-nil fields into the logged-in account.
func (s *Store) UpdateProfile(ctx context.Context, upd user.ProfileUpdate) (user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return user.Profile{}, s.fail(ctx, "update_profile", "Update failed", ErrNotAuthenticated)
	}
	defer s.busy()()

	if err := s.delay.Wait(ctx); err != nil {
		return user.Profile{}, s.fail(ctx, "update_profile", "Update failed", err)
	}

	ctx = context.WithoutCancel(ctx)
	acc, err := s.dir.Update(ctx, s.current.ID, upd.Apply)
	if err != nil {
		return user.Profile{}, s.fail(ctx, "update_profile", "Update failed", err)
	}

	profile := acc.Profile()
	if err := s.setSession(ctx, &profile); err != nil {
		return user.Profile{}, s.fail(ctx, "update_profile", "Update failed", err)
	}

	s.metrics.AuthAttempt("update_profile", nil, "")
	s.notifier.Notify(ctx, notify.Success("Profile updated", "Your profile has been successfully updated"))
	return profile, nil
}

func (s *Store) Current() (user.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return user.Profile{}, false
	}
	return *s.current, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// IsLoading does not take the store lock, so it can be polled while an
// operation is waiting out its latency.
func (s *Store) IsLoading() bool {
	return s.loading.Load()
}

func (s *Store) busy() func() {
	s.loading.Store(true)
	return func() { s.loading.Store(false) }
}

func (s *Store) setSession(ctx context.Context, p *user.Profile) error {
	if err := s.repo.Save(ctx, p); err != nil {
		return err
	}
	s.current = p
	return nil
}

func (s *Store) fail(ctx context.Context, op, title string, err error) error {
	s.metrics.AuthAttempt(op, err, failureLabel(err))

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// nobody is left to read a toast
		s.logger.Debug("auth operation abandoned", zap.String("op", op), zap.Error(err))
		return err
	case failureLabel(err) == "error":
		s.logger.Error("auth operation failed", zap.String("op", op), zap.Error(err))
	default:
		s.logger.Info("auth operation rejected", zap.String("op", op), zap.Error(err))
	}

	s.notifier.Notify(ctx, notify.Error(title, Message(err)))
	return err
}
