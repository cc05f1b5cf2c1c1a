package newsletter

import (
	"context"
	"errors"
	"strings"

	"healside/internal/domain"
	newsletterrepo "healside/internal/repository/newsletter"
)

// ErrInvalidEmail rejects addresses with no local part or domain.
var ErrInvalidEmail = errors.New("invalid email address")

type Service struct {
	repo newsletterrepo.Repository
}

func New(repo newsletterrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Subscribe adds the email to the list, reactivating a previously
// unsubscribed address.
func (s *Service) Subscribe(ctx context.Context, email string) (*domain.NewsletterSubscription, error) {
	email, err := normalize(email)
	if err != nil {
		return nil, err
	}
	return s.repo.Subscribe(ctx, email)
}

// Unsubscribe deactivates the email. An unknown address returns
// domain.ErrNotFound.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email, err := normalize(email)
	if err != nil {
		return err
	}
	known, err := s.repo.Unsubscribe(ctx, email)
	if err != nil {
		return err
	}
	if !known {
		return domain.ErrNotFound
	}
	return nil
}

func normalize(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
