package externalpost

import (
	"context"
	"errors"

	"healside/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, title, link, pub_date, description, COALESCE(content, ''),
COALESCE(author, ''), COALESCE(categories, '{}'), COALESCE(image_url, ''), source, cached, fetched_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) UpsertByLink(ctx context.Context, post domain.ExternalPost) (*domain.ExternalPost, error) {
	const insert = `
INSERT INTO external_posts (title, link, pub_date, description, content, author, categories, image_url, source, cached)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), $9, TRUE)
ON CONFLICT (link) DO NOTHING
RETURNING ` + postColumns
	row := r.pool.QueryRow(ctx, insert,
		post.Title, post.Link, post.PubDate, post.Description, post.Content,
		post.Author, post.Categories, post.ImageURL, post.Source,
	)
	p, err := scanPost(row)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Conflict path: the link is already cached, return it as-is.
	row = r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM external_posts WHERE link = $1`, post.Link)
	return scanPost(row)
}

func (r *postgresRepo) List(ctx context.Context, source string) ([]domain.ExternalPost, error) {
	q := `SELECT ` + postColumns + ` FROM external_posts ORDER BY pub_date DESC`
	args := []interface{}{}
	if source != "" {
		q = `SELECT ` + postColumns + ` FROM external_posts WHERE source = $1 ORDER BY pub_date DESC`
		args = append(args, source)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ExternalPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.ExternalPost, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM external_posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPost(row pgx.Row) (*domain.ExternalPost, error) {
	var p domain.ExternalPost
	err := row.Scan(
		&p.ID, &p.Title, &p.Link, &p.PubDate, &p.Description, &p.Content,
		&p.Author, &p.Categories, &p.ImageURL, &p.Source, &p.Cached, &p.FetchedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
