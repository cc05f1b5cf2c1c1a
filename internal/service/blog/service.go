package blog

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"healside/internal/domain"
	blogrepo "healside/internal/repository/blog"
)

var (
	ErrTitleRequired   = errors.New("title required")
	ErrContentRequired = errors.New("content required")
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Service manages locally authored blog posts.
type Service struct {
	repo blogrepo.Repository
}

func New(repo blogrepo.Repository) *Service {
	return &Service{repo: repo}
}

// ListPublished returns published posts, newest first.
func (s *Service) ListPublished(ctx context.Context) ([]domain.BlogPost, error) {
	return s.repo.ListPublished(ctx)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Create stores a post, deriving the slug from the title when absent. A
// duplicate slug returns domain.ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(post.Content) == "" {
		return nil, ErrContentRequired
	}
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	return s.repo.Create(ctx, post)
}

// Update applies the non-nil fields. An empty title or content is rejected
// the same way Create rejects it.
func (s *Service) Update(ctx context.Context, id int64, in blogrepo.UpdateInput) (*domain.BlogPost, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if trimmed == "" {
			return nil, ErrTitleRequired
		}
		in.Title = &trimmed
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return nil, ErrContentRequired
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// Slugify lowercases the title and collapses runs of non-alphanumerics into
// single hyphens.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
