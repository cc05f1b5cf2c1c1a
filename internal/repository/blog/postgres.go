package blog

import (
	"context"
	"errors"

	"healside/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, title, slug, excerpt, content, image_url, published, publish_date`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListPublished(ctx context.Context) ([]domain.BlogPost, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE published ORDER BY publish_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BlogPost
	for rows.Next() {
		var p domain.BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.ImageURL, &p.Published, &p.PublishDate); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	var p domain.BlogPost
	err := r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE slug = $1`, slug,
	).Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.ImageURL, &p.Published, &p.PublishDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	const q = `
INSERT INTO blog_posts (title, slug, excerpt, content, image_url, published, publish_date)
VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
RETURNING id, publish_date
`
	var publishDate interface{}
	if !post.PublishDate.IsZero() {
		publishDate = post.PublishDate
	}
	err := r.pool.QueryRow(ctx, q,
		post.Title, post.Slug, post.Excerpt, post.Content, post.ImageURL, post.Published, publishDate,
	).Scan(&post.ID, &post.PublishDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &post, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int64, in UpdateInput) (*domain.BlogPost, error) {
	const q = `
UPDATE blog_posts SET
    title = COALESCE($2, title),
    slug = COALESCE($3, slug),
    excerpt = COALESCE($4, excerpt),
    content = COALESCE($5, content),
    image_url = COALESCE($6, image_url),
    published = COALESCE($7, published)
WHERE id = $1
RETURNING ` + postColumns
	var p domain.BlogPost
	err := r.pool.QueryRow(ctx, q, id,
		in.Title, in.Slug, in.Excerpt, in.Content, in.ImageURL, in.Published,
	).Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.ImageURL, &p.Published, &p.PublishDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
