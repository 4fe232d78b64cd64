package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL = 24 * 7 * time.Hour

	tokenLength      = 35
	sessionKeyPrefix = "fitcoach-session||"
	// freecache minimum is 512KB, one session is well under 100 bytes
	cacheSizeBytes = 1024 * 1024
)

var (
	ErrWrongPassword = errors.New("wrong password")
	ErrNotConfigured = errors.New("password hash not configured")
	ErrPasswordEmpty = errors.New("password empty")
)

type Service struct {
	passwordHash string
	ttl          time.Duration
	cache        *freecache.Cache
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(passwordHash string, ttl time.Duration) *Service {
	return newService(passwordHash, ttl, freecache.NewCache(cacheSizeBytes))
}

func newService(passwordHash string, ttl time.Duration, cache *freecache.Cache) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		passwordHash:   passwordHash,
		ttl:            ttl,
		cache:          cache,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Login checks the password against the configured bcrypt hash and starts a new session.
func (s *Service) Login(ctx context.Context, password string) (_ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "auth.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.passwordHash == "" {
		return "", ErrNotConfigured
	}
	if password == "" {
		return "", ErrPasswordEmpty
	}
	if !pkg.CheckPasswordHash(password, s.passwordHash) {
		return "", ErrWrongPassword
	}

	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	if err := s.cache.Set(sessionKey(token), []byte(createdAt), int(s.ttl.Seconds())); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	log.Tracef("new session started at %s", createdAt)
	return token, nil
}

// Session resolves a token. Unknown, expired and empty tokens give an anonymous session.
func (s *Service) Session(token string) Session {
	if token == "" {
		return Anonymous()
	}

	if _, err := s.cache.Get(sessionKey(token)); err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("session lookup: %s", err)
		}
		return Anonymous()
	}

	return Session{
		Token:         token,
		Authenticated: true,
	}
}

// Logout ends the session and reports whether it existed.
func (s *Service) Logout(token string) bool {
	if token == "" {
		return false
	}
	return s.cache.Del(sessionKey(token))
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) ActiveSessions() int64 {
	return s.cache.EntryCount()
}

func sessionKey(token string) []byte {
	return []byte(sessionKeyPrefix + token)
}
