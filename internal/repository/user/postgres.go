package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"healside/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, COALESCE(password_hash, ''), COALESCE(name, ''), COALESCE(address, ''),
COALESCE(city, ''), COALESCE(state, ''), COALESCE(country, ''), COALESCE(zip_code, ''), COALESCE(phone, ''),
is_admin, COALESCE(stripe_customer_id, ''), COALESCE(stripe_subscription_id, ''), google_id, apple_id,
COALESCE(profile_image_url, '')`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, email, password_hash, name, address, city, state, country, zip_code, phone, is_admin, google_id, apple_id, profile_image_url)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11, $12, $13, NULLIF($14, ''))
RETURNING id
`
	err := r.pool.QueryRow(ctx, q,
		u.Username, u.Email, u.PasswordHash, u.Name, u.Address, u.City, u.State,
		u.Country, u.ZipCode, u.Phone, u.IsAdmin, u.GoogleID, u.AppleID, u.ProfileImageURL,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create username=%s error=%v", u.Username, err)
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *postgresRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
}

func (r *postgresRepo) GetByAppleID(ctx context.Context, appleID string) (*domain.User, error) {
	return r.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE apple_id = $1`, appleID)
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*domain.User, error) {
	const q = `
UPDATE users SET
    name = COALESCE($2, name),
    address = COALESCE($3, address),
    city = COALESCE($4, city),
    state = COALESCE($5, state),
    country = COALESCE($6, country),
    zip_code = COALESCE($7, zip_code),
    phone = COALESCE($8, phone),
    profile_image_url = COALESCE($9, profile_image_url)
WHERE id = $1
RETURNING id
`
	var updated int64
	err := r.pool.QueryRow(ctx, q, id,
		in.Name, in.Address, in.City, in.State, in.Country, in.ZipCode, in.Phone, in.ProfileImageURL,
	).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: update id=%d error=%v", id, err)
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) LinkProvider(ctx context.Context, id int64, provider, subject string) error {
	var q string
	switch provider {
	case "google":
		q = `UPDATE users SET google_id = $2 WHERE id = $1`
	case "apple":
		q = `UPDATE users SET apple_id = $2 WHERE id = $1`
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	tag, err := r.pool.Exec(ctx, q, id, subject)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *postgresRepo) fetch(ctx context.Context, q string, args ...interface{}) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, q, args...)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Address,
		&u.City, &u.State, &u.Country, &u.ZipCode, &u.Phone,
		&u.IsAdmin, &u.StripeCustomerID, &u.StripeSubscriptionID, &u.GoogleID, &u.AppleID,
		&u.ProfileImageURL,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
