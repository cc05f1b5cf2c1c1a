// Package feed ingests external wellness articles into the local cache.
// Reads are always served from the cache; ingestion runs on demand or on a
// schedule, never inside a read request.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"healside/internal/domain"
	externalpostrepo "healside/internal/repository/externalpost"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

const (
	fetchTimeout = 10 * time.Second
	maxBodyBytes = 4 << 20
	userAgent    = "Healside-Blog-Integration/1.0"
)

// Service fetches remote feeds and caches their articles by link.
type Service struct {
	repo      externalpostrepo.Repository
	client    *http.Client
	parser    *gofeed.Parser
	sanitizer *bluemonday.Policy
	logger    *log.Logger
}

func New(repo externalpostrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:      repo,
		client:    &http.Client{Timeout: fetchTimeout},
		parser:    gofeed.NewParser(),
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

// Query returns cached articles, optionally filtered by source label.
func (s *Service) Query(ctx context.Context, source string) ([]domain.ExternalPost, error) {
	return s.repo.List(ctx, source)
}

// Get returns one cached article.
func (s *Service) Get(ctx context.Context, id int64) (*domain.ExternalPost, error) {
	return s.repo.GetByID(ctx, id)
}

// Ingest fetches the feed and upserts its articles into the cache, keyed by
// link. Articles already cached keep their original row. The feed format is
// chosen from the response content type: JSON means a WordPress REST posts
// endpoint, anything else is parsed as RSS or Atom.
func (s *Service) Ingest(ctx context.Context, feedURL, source string) ([]domain.ExternalPost, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &domain.FeedError{URL: feedURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &domain.FeedError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FeedError{URL: feedURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.FeedError{URL: feedURL, Err: err}
	}

	var posts []domain.ExternalPost
	if strings.Contains(resp.Header.Get("Content-Type"), "json") {
		posts, err = s.parseWordPress(body)
	} else {
		posts, err = s.parseSyndication(body)
	}
	if err != nil {
		return nil, &domain.FeedError{URL: feedURL, Err: err}
	}

	cached := make([]domain.ExternalPost, 0, len(posts))
	for _, p := range posts {
		if p.Link == "" || p.Title == "" {
			continue
		}
		p.Source = source
		stored, err := s.repo.UpsertByLink(ctx, p)
		if err != nil {
			s.logger.Printf("feed: cache %s: %v", p.Link, err)
			continue
		}
		cached = append(cached, *stored)
	}
	s.logger.Printf("feed: ingested %d articles from %s", len(cached), feedURL)
	return cached, nil
}

// wpPost is the subset of the WordPress REST v2 post shape we consume,
// with _embed expansions for author, featured media, and terms.
type wpPost struct {
	Date    string     `json:"date"`
	Link    string     `json:"link"`
	Title   wpRendered `json:"title"`
	Excerpt wpRendered `json:"excerpt"`
	Content wpRendered `json:"content"`

	Embedded struct {
		Author []struct {
			Name string `json:"name"`
		} `json:"author"`
		FeaturedMedia []struct {
			SourceURL string `json:"source_url"`
		} `json:"wp:featuredmedia"`
		Terms [][]struct {
			Name     string `json:"name"`
			Taxonomy string `json:"taxonomy"`
		} `json:"wp:term"`
	} `json:"_embedded"`
}

type wpRendered struct {
	Rendered string `json:"rendered"`
}

func (s *Service) parseWordPress(body []byte) ([]domain.ExternalPost, error) {
	var raw []wpPost
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("wordpress response: %w", err)
	}

	posts := make([]domain.ExternalPost, 0, len(raw))
	for _, wp := range raw {
		p := domain.ExternalPost{
			Title:       s.plainText(wp.Title.Rendered),
			Link:        wp.Link,
			PubDate:     parseWordPressDate(wp.Date),
			Description: s.plainText(wp.Excerpt.Rendered),
			Content:     wp.Content.Rendered,
		}
		if len(wp.Embedded.Author) > 0 {
			p.Author = wp.Embedded.Author[0].Name
		}
		if len(wp.Embedded.FeaturedMedia) > 0 {
			p.ImageURL = wp.Embedded.FeaturedMedia[0].SourceURL
		}
		for _, group := range wp.Embedded.Terms {
			for _, term := range group {
				if term.Taxonomy == "" || term.Taxonomy == "category" {
					p.Categories = append(p.Categories, term.Name)
				}
			}
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (s *Service) parseSyndication(body []byte) ([]domain.ExternalPost, error) {
	parsed, err := s.parser.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("syndication feed: %w", err)
	}

	posts := make([]domain.ExternalPost, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		p := domain.ExternalPost{
			Title:       s.plainText(item.Title),
			Link:        item.Link,
			Description: s.plainText(item.Description),
			Content:     item.Content,
			Categories:  item.Categories,
		}
		if item.PublishedParsed != nil {
			p.PubDate = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			p.PubDate = *item.UpdatedParsed
		} else {
			p.PubDate = time.Now().UTC()
		}
		if item.Author != nil {
			p.Author = item.Author.Name
		}
		if item.Image != nil {
			p.ImageURL = item.Image.URL
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// plainText strips markup and entities for list and preview rendering.
func (s *Service) plainText(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(v)))
}

// parseWordPressDate handles WordPress's timezone-less date format with an
// RFC 3339 fallback.
func parseWordPressDate(v string) time.Time {
	if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	return time.Now().UTC()
}
