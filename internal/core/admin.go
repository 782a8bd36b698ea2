package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced when hashing new admin passwords.
const MinPasswordLength = 8

// dummyHash is compared against when the e-mail is unknown so both failure
// paths take the same time.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("member-portal-placeholder"), bcrypt.DefaultCost)
	return h
})

// HashPassword returns a bcrypt hash for seeding admin accounts.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks an admin's credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (AdminSession, AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrInvalidCredentials) {
		return AdminSession{}, AdminUser{}, fmt.Errorf("login: %w", err)
	}

	hash := dummyHash()
	if err == nil {
		hash = []byte(admin.PasswordHash)
	}
	cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err != nil || cmpErr != nil || !admin.Active {
		s.LogAudit(ctx, ActionAdminLoginFailed, email, nil)
		return AdminSession{}, AdminUser{}, ErrInvalidCredentials
	}

	now := s.now()
	session := AdminSession{
		Token:     uuid.NewString(),
		AdminID:   admin.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.SessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return AdminSession{}, AdminUser{}, fmt.Errorf("login: %w", err)
	}

	s.LogAudit(ContextWithActor(ctx, admin), ActionAdminLogin, admin.Email, nil)
	return session, admin, nil
}

// Authenticate returns the admin owning an unexpired session token.
func (s *Service) Authenticate(ctx context.Context, token string) (AdminUser, error) {
	if token == "" {
		return AdminUser{}, ErrNotAuthenticated
	}
	if _, err := uuid.Parse(token); err != nil {
		return AdminUser{}, ErrSessionExpired
	}
	_, admin, err := s.store.GetSession(ctx, token, s.now())
	if err != nil {
		return AdminUser{}, fmt.Errorf("authenticate: %w", err)
	}
	if !admin.Active {
		return AdminUser{}, ErrSessionExpired
	}
	return admin, nil
}

// Logout closes a session. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.LogAudit(ctx, ActionAdminLogout, actorName(ctx), nil)
	return nil
}

// PurgeExpiredSessions deletes admin sessions past their expiry.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.store.PurgeExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return n, nil
}
