package blog

import (
	"context"
	"errors"
	"testing"

	"healside/internal/domain"
	blogrepo "healside/internal/repository/blog"
)

type stubRepo struct {
	posts map[string]*domain.BlogPost
}

func newStubRepo() *stubRepo { return &stubRepo{posts: map[string]*domain.BlogPost{}} }

func (s *stubRepo) ListPublished(_ context.Context) ([]domain.BlogPost, error) {
	var out []domain.BlogPost
	for _, p := range s.posts {
		if p.Published {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubRepo) GetBySlug(_ context.Context, slug string) (*domain.BlogPost, error) {
	if p, ok := s.posts[slug]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Create(_ context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	if _, ok := s.posts[post.Slug]; ok {
		return nil, domain.ErrAlreadyExists
	}
	post.ID = int64(len(s.posts) + 1)
	s.posts[post.Slug] = &post
	return &post, nil
}

func (s *stubRepo) Update(_ context.Context, id int64, in blogrepo.UpdateInput) (*domain.BlogPost, error) {
	for _, p := range s.posts {
		if p.ID != id {
			continue
		}
		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Content != nil {
			p.Content = *in.Content
		}
		if in.Published != nil {
			p.Published = *in.Published
		}
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Delete(_ context.Context, id int64) (bool, error) {
	for slug, p := range s.posts {
		if p.ID == id {
			delete(s.posts, slug)
			return true, nil
		}
	}
	return false, nil
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Five Calming Teas", "five-calming-teas"},
		{"  Breathing & Focus!  ", "breathing-focus"},
		{"Already-Slugged", "already-slugged"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreateDerivesSlugAndRejectsDuplicates(t *testing.T) {
	svc := New(newStubRepo())
	ctx := context.Background()

	post, err := svc.Create(ctx, domain.BlogPost{Title: "Five Calming Teas", Content: "body"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.Slug != "five-calming-teas" {
		t.Fatalf("Slug = %q", post.Slug)
	}

	if _, err := svc.Create(ctx, domain.BlogPost{Title: "Five Calming Teas", Content: "other"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(newStubRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.BlogPost{Content: "body"}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, domain.BlogPost{Title: "T"}); !errors.Is(err, ErrContentRequired) {
		t.Fatalf("expected ErrContentRequired, got %v", err)
	}
}

func TestUpdateValidation(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)
	ctx := context.Background()

	post, err := svc.Create(ctx, domain.BlogPost{Title: "Five Calming Teas", Content: "body"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	empty := "  "
	if _, err := svc.Update(ctx, post.ID, blogrepo.UpdateInput{Title: &empty}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}

	title := "Six Calming Teas"
	updated, err := svc.Update(ctx, post.ID, blogrepo.UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Six Calming Teas" {
		t.Fatalf("Title = %q", updated.Title)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := New(newStubRepo())
	if err := svc.Delete(context.Background(), 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
