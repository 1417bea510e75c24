package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mycarts/internal/domain"
	userrepo "mycarts/internal/repository/user"
)

// ErrInvalidToken indicates the provided token could not be validated.
var ErrInvalidToken = errors.New("invalid token")

// Service manages users and the bearer tokens that identify them.
type Service struct {
	repo   userrepo.Repository
	tokens *tokenManager
	now    func() time.Time
}

// New creates a Service signing tokens with secret, valid for ttl.
func New(repo userrepo.Repository, secret []byte, ttl time.Duration) *Service {
	return &Service{
		repo:   repo,
		tokens: newTokenManager(secret, ttl),
		now:    time.Now,
	}
}

type CreateInput struct {
	Username string `json:"username"`
	Guest    bool   `json:"guest"`
}

// Create registers a new user.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, userrepo.CreateUserInput{Username: username, Guest: in.Guest})
}

func (s *Service) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

// Delete removes the user. Their carts stay behind without an owner.
func (s *Service) Delete(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(username))
}

// ReapGuests removes guest users created more than age ago and reports how many were removed.
func (s *Service) ReapGuests(ctx context.Context, age time.Duration) (int64, error) {
	if age <= 0 {
		return 0, domain.Invalid("age", "must be positive")
	}
	removed, err := s.repo.DeleteGuestsCreatedBefore(ctx, s.now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("reap guests: %w", err)
	}
	return removed, nil
}

// IssueToken returns a bearer token for an existing user.
func (s *Service) IssueToken(ctx context.Context, username string) (string, error) {
	u, err := s.Get(ctx, username)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(*u, s.now())
}

// Authenticate resolves a bearer token to its user. A token issued to an earlier account with
// the same username is rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Validate(token, s.now())
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if u.ID != claims.Subject {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// TokenTTLSeconds exposes the token lifetime in seconds.
func (s *Service) TokenTTLSeconds() int {
	return int(s.tokens.ttl.Seconds())
}
