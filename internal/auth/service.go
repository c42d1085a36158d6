// Package auth handles accounts, password checks with lockout, and server-side sessions
// referenced by signed tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"go.uber.org/zap"
)

const (
	SessionTTL       = time.Hour
	RememberMeTTL    = 24 * time.Hour
	PasswordResetTTL = 24 * time.Hour
)

// Notifier is told about security events. Calls happen after the change is stored.
type Notifier interface {
	AccountLocked(ctx context.Context, u models.User, until time.Time)
	PasswordResetRequested(ctx context.Context, u models.User, token string)
}

type noopNotifier struct{}

func (noopNotifier) AccountLocked(context.Context, models.User, time.Time)      {}
func (noopNotifier) PasswordResetRequested(context.Context, models.User, string) {}

type Service struct {
	store    repo.Store
	tokens   *Tokens
	cache    SessionCache
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

func WithCache(c SessionCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func NewService(store repo.Store, tokens *Tokens, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		tokens:   tokens,
		cache:    noopCache{},
		notifier: noopNotifier{},
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return invalid("password must have at least %d characters", MinPasswordLength)
	}
	if password != confirm {
		return invalid("password confirmation does not match")
	}
	return nil
}

type RegisterInput struct {
	Email    string
	Password string
	Confirm  string
	Name     string
	Role     models.Role
}

// Register creates an account. Only an administrator actor may choose the role; everyone
// else gets an operator account.
func (s *Service) Register(ctx context.Context, in RegisterInput, actor *models.User) (models.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, invalid("invalid email address")
	}
	if strings.TrimSpace(in.Name) == "" {
		return models.User{}, invalid("name is required")
	}
	if err := validatePassword(in.Password, in.Confirm); err != nil {
		return models.User{}, err
	}

	role := models.RoleOperator
	if actor != nil && actor.IsAdmin() && in.Role != "" {
		if !in.Role.Valid() {
			return models.User{}, invalid("unknown role %q", in.Role)
		}
		role = in.Role
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.store.Repos().Users.Create(ctx, models.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		Active:       true,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return models.User{}, ErrEmailTaken
	}
	if err != nil {
		return models.User{}, err
	}

	s.logger.Info("user registered", zap.Int("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

type LoginInput struct {
	Email      string
	Password   string
	ClientIP   string
	UserAgent  string
	RememberMe bool
}

type LoginResult struct {
	Token   string
	User    models.User
	Session models.Session
}

// Authenticate checks credentials and opens a session. Five wrong passwords in a row lock
// the account for thirty minutes.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (LoginResult, error) {
	now := s.now()
	var (
		res       LoginResult
		failed    bool
		lockedNow bool
	)

	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		u, err := r.Users.GetByEmail(ctx, normalizeEmail(in.Email))
		if errors.Is(err, repo.ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if !u.Active {
			return ErrInvalidCredentials
		}
		if u.IsLocked(now) {
			return &LockedError{Until: *u.LockedUntil}
		}

		if !CheckPassword(u.PasswordHash, in.Password) {
			failed = true
			lockedNow = u.RegisterFailure(now)
			res.User, err = r.Users.Update(ctx, u)
			return err
		}

		u.ResetFailures()
		u.LastAccessAt = &now
		if u, err = r.Users.Update(ctx, u); err != nil {
			return err
		}

		ttl := SessionTTL
		if in.RememberMe {
			ttl = RememberMeTTL
		}
		session := models.Session{
			ID:        s.newID(),
			UserID:    u.ID,
			IssuedAt:  now,
			ExpiresAt: now.Add(ttl),
			ClientIP:  in.ClientIP,
			UserAgent: in.UserAgent,
			Active:    true,
		}
		if err := r.Sessions.Create(ctx, session); err != nil {
			return err
		}

		token, err := s.tokens.Issue(session, u.Role)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		res = LoginResult{Token: token, User: u, Session: session}
		return nil
	})

	if err != nil {
		return LoginResult{}, err
	}
	if failed {
		if lockedNow {
			until := *res.User.LockedUntil
			s.logger.Warn("account locked", zap.Int("user_id", res.User.ID), zap.Time("until", until))
			s.notifier.AccountLocked(ctx, res.User, until)
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	if cerr := s.cache.Set(ctx, res.Session); cerr != nil {
		s.logger.Warn("cache session", zap.Error(cerr))
	}
	s.logger.Info("user logged in", zap.Int("user_id", res.User.ID), zap.String("ip", in.ClientIP))
	return res, nil
}

// ValidateSession resolves a token to its caller. An expired session is marked inactive.
func (s *Service) ValidateSession(ctx context.Context, token string) (Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Principal{}, err
	}

	repos := s.store.Repos()
	session, cached := s.cache.Get(ctx, claims.SessionID)
	if !cached {
		session, err = repos.Sessions.GetByID(ctx, claims.SessionID)
		if errors.Is(err, repo.ErrSessionNotFound) {
			return Principal{}, ErrInvalidSession
		}
		if err != nil {
			return Principal{}, err
		}
	}
	if !session.Active || session.UserID != claims.UserID {
		return Principal{}, ErrInvalidSession
	}

	now := s.now()
	if session.Expired(now) {
		session.Active = false
		if err := repos.Sessions.Update(ctx, session); err != nil && !errors.Is(err, repo.ErrSessionNotFound) {
			return Principal{}, err
		}
		_ = s.cache.Delete(ctx, session.ID)
		return Principal{}, ErrSessionExpired
	}

	u, err := repos.Users.GetByID(ctx, session.UserID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return Principal{}, ErrInvalidSession
	}
	if err != nil {
		return Principal{}, err
	}
	if !u.CanAccess(now) {
		return Principal{}, ErrInvalidSession
	}

	if !cached {
		_ = s.cache.Set(ctx, session)
	}
	return Principal{User: u, Session: session}, nil
}

// Logout ends the session behind token. Unknown or invalid tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	repos := s.store.Repos()
	session, err := repos.Sessions.GetByID(ctx, claims.SessionID)
	if errors.Is(err, repo.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	session.Active = false
	if err := repos.Sessions.Update(ctx, session); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, session.ID)
	s.logger.Info("user logged out", zap.Int("user_id", session.UserID))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int, current, next, confirm string) error {
	if err := validatePassword(next, confirm); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		u, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !CheckPassword(u.PasswordHash, current) {
			return ErrInvalidCredentials
		}
		if u.PasswordHash, err = HashPassword(next); err != nil {
			return err
		}
		_, err = r.Users.Update(ctx, u)
		return err
	})
}

// RequestPasswordReset issues a reset token valid for a day. Unknown emails get the same
// silent answer as known ones.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	var (
		target models.User
		token  string
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		u, err := r.Users.GetByEmail(ctx, normalizeEmail(email))
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !u.Active {
			return nil
		}
		token = s.newID()
		expires := s.now().Add(PasswordResetTTL)
		u.ResetToken = &token
		u.ResetTokenExpiresAt = &expires
		target, err = r.Users.Update(ctx, u)
		return err
	})
	if err != nil {
		return err
	}
	if token != "" {
		s.notifier.PasswordResetRequested(ctx, target, token)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if err := validatePassword(password, confirm); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		u, err := r.Users.GetByResetToken(ctx, token)
		if errors.Is(err, repo.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return err
		}
		if u.ResetTokenExpiresAt == nil || !s.now().Before(*u.ResetTokenExpiresAt) {
			return ErrInvalidResetToken
		}
		if u.PasswordHash, err = HashPassword(password); err != nil {
			return err
		}
		u.ResetToken = nil
		u.ResetTokenExpiresAt = nil
		u.ResetFailures()
		_, err = r.Users.Update(ctx, u)
		return err
	})
}

func (s *Service) GetUser(ctx context.Context, id int) (models.User, error) {
	return s.store.Repos().Users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, role *models.Role, active *bool) ([]models.User, error) {
	return s.store.Repos().Users.List(ctx, repo.UserFilter{Role: role, Active: active})
}

// SetActive enables or disables an account. Disabling it also ends every open session.
func (s *Service) SetActive(ctx context.Context, actor models.User, userID int, active bool) (models.User, error) {
	if !actor.IsAdmin() {
		return models.User{}, ErrForbidden
	}
	if !active && actor.ID == userID {
		return models.User{}, ErrSelfDeactivation
	}

	var (
		updated  models.User
		sessions []string
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		u, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		u.Active = active
		if active {
			u.ResetFailures()
		}
		if updated, err = r.Users.Update(ctx, u); err != nil {
			return err
		}
		if active {
			return nil
		}

		open, err := r.Sessions.ListActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, sess := range open {
			sess.Active = false
			if err := r.Sessions.Update(ctx, sess); err != nil {
				return err
			}
			sessions = append(sessions, sess.ID)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	_ = s.cache.Delete(ctx, sessions...)
	s.logger.Info("user status changed",
		zap.Int("user_id", userID),
		zap.Bool("active", active),
		zap.Int("sessions_closed", len(sessions)))
	return updated, nil
}

type Stats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Administrators int `json:"administrators"`
	Operators      int `json:"operators"`
	Locked         int `json:"locked"`
	ActiveSessions int `json:"active_sessions"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	repos := s.store.Repos()
	users, err := repos.Users.List(ctx, repo.UserFilter{})
	if err != nil {
		return Stats{}, err
	}

	now := s.now()
	var st Stats
	for _, u := range users {
		st.Total++
		if u.Active {
			st.Active++
		}
		if u.IsAdmin() {
			st.Administrators++
		} else {
			st.Operators++
		}
		if u.IsLocked(now) {
			st.Locked++
		}
	}
	if st.ActiveSessions, err = repos.Sessions.CountActive(ctx, now); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// CleanExpiredSessions deletes sessions past their expiry.
func (s *Service) CleanExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.store.Repos().Sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired sessions removed", zap.Int("count", n))
	}
	return n, nil
}

// StartSessionCleaner runs CleanExpiredSessions every interval until ctx is done.
func (s *Service) StartSessionCleaner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CleanExpiredSessions(ctx); err != nil {
				s.logger.Error("clean expired sessions", zap.Error(err))
			}
		}
	}
}

// EnsureAdmin creates the first administrator when no user exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	users, err := s.store.Repos().Users.List(ctx, repo.UserFilter{})
	if err != nil {
		return false, err
	}
	if len(users) > 0 || email == "" {
		return false, nil
	}
	admin := models.User{Role: models.RoleAdministrator}
	_, err = s.Register(ctx, RegisterInput{
		Email:    email,
		Password: password,
		Confirm:  password,
		Name:     "Administrador",
		Role:     models.RoleAdministrator,
	}, &admin)
	if err != nil {
		return false, err
	}
	return true, nil
}
