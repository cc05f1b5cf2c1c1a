package seed

import (
	"context"
	"fmt"
	"log"

	"healside/internal/config"
	"healside/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name          string
	PriceCents    int64
	Description   string
	Category      domain.Category
	ImageURL      string
	Supplier      string
	Origin        string
	StockQuantity int
}

type blogSeed struct {
	Title   string
	Slug    string
	Excerpt string
	Content string
}

// Apply inserts the admin account, a starter catalog, and sample blog posts
// for manual testing. It is idempotent.
func Apply(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, logger *log.Logger) error {
	if cfg.AdminPassword != "" {
		if err := ensureAdmin(ctx, pool, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		logger.Printf("admin account %q ready", cfg.AdminUsername)
	} else {
		logger.Println("ADMIN_PASSWORD not set, skipping admin account")
	}

	for _, p := range catalog() {
		if err := insertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("insert product %s: %w", p.Name, err)
		}
	}

	for _, b := range blogPosts() {
		if err := insertBlogPost(ctx, pool, b); err != nil {
			return fmt.Errorf("insert blog post %s: %w", b.Slug, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (username, email, password_hash, is_admin)
VALUES ($1, $2, $3, TRUE)
ON CONFLICT (username) DO UPDATE
SET password_hash = EXCLUDED.password_hash,
    is_admin = TRUE
`
	_, err = pool.Exec(ctx, q, username, email, string(hash))
	return err
}

func insertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, price_cents, description, category, image_url, supplier, origin, in_stock, stock_quantity, low_stock_threshold)
SELECT $1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8 > 0, $8, 5
WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
`
	_, err := pool.Exec(ctx, q, p.Name, p.PriceCents, p.Description, string(p.Category), p.ImageURL, p.Supplier, p.Origin, p.StockQuantity)
	return err
}

func insertBlogPost(ctx context.Context, pool *pgxpool.Pool, b blogSeed) error {
	const q = `
INSERT INTO blog_posts (title, slug, excerpt, content, image_url, published, publish_date)
VALUES ($1, $2, $3, $4, '', TRUE, now())
ON CONFLICT (slug) DO NOTHING
`
	_, err := pool.Exec(ctx, q, b.Title, b.Slug, b.Excerpt, b.Content)
	return err
}

func catalog() []productSeed {
	return []productSeed{
		{
			Name:          "Lavender Pillow Mist",
			PriceCents:    1450,
			Description:   "A calming lavender and chamomile spray for restful sleep.",
			Category:      domain.CategoryRelaxation,
			Supplier:      "Provence Botanics",
			Origin:        "France",
			StockQuantity: 40,
		},
		{
			Name:          "Weighted Eye Pillow",
			PriceCents:    2200,
			Description:   "Flaxseed-filled silk eye pillow for deep relaxation.",
			Category:      domain.CategoryRelaxation,
			Supplier:      "Stillwater Goods",
			Origin:        "Portugal",
			StockQuantity: 25,
		},
		{
			Name:          "Meditation Cushion",
			PriceCents:    4900,
			Description:   "Buckwheat zafu cushion with removable organic cotton cover.",
			Category:      domain.CategoryMeditation,
			Supplier:      "Quiet Mountain",
			Origin:        "Nepal",
			StockQuantity: 15,
		},
		{
			Name:          "Singing Bowl Set",
			PriceCents:    6800,
			Description:   "Hand-hammered brass singing bowl with mallet and cushion.",
			Category:      domain.CategoryMeditation,
			Supplier:      "Quiet Mountain",
			Origin:        "Nepal",
			StockQuantity: 10,
		},
		{
			Name:          "Rosehip Facial Oil",
			PriceCents:    3200,
			Description:   "Cold-pressed rosehip oil rich in vitamins A and C.",
			Category:      domain.CategorySkincare,
			Supplier:      "Andes Organics",
			Origin:        "Chile",
			StockQuantity: 30,
		},
		{
			Name:          "Jade Facial Roller",
			PriceCents:    2400,
			Description:   "Dual-ended jade roller for lymphatic facial massage.",
			Category:      domain.CategorySkincare,
			Supplier:      "Mei Wellness",
			Origin:        "China",
			StockQuantity: 35,
		},
		{
			Name:          "Palo Santo Bundle",
			PriceCents:    1200,
			Description:   "Sustainably harvested palo santo sticks for smoke cleansing.",
			Category:      domain.CategorySpirituality,
			Supplier:      "Selva Sagrada",
			Origin:        "Ecuador",
			StockQuantity: 50,
		},
		{
			Name:          "Chakra Stone Set",
			PriceCents:    3600,
			Description:   "Seven polished stones aligned to the chakras, with guide.",
			Category:      domain.CategorySpirituality,
			Supplier:      "Terra Lumen",
			Origin:        "Brazil",
			StockQuantity: 20,
		},
	}
}

func blogPosts() []blogSeed {
	return []blogSeed{
		{
			Title:   "A Beginner's Guide to Evening Wind-Down",
			Slug:    "beginners-guide-evening-wind-down",
			Excerpt: "Small rituals that tell your body the day is over.",
			Content: "<p>Consistency matters more than duration. Ten minutes of the same ritual every night outperforms an hour of occasional effort.</p>",
		},
		{
			Title:   "Why Breathwork Belongs in Your Morning",
			Slug:    "why-breathwork-belongs-in-your-morning",
			Excerpt: "Three breathing patterns to start the day grounded.",
			Content: "<p>Box breathing, extended exhales, and alternate nostril breathing each shift the nervous system in a different way.</p>",
		},
	}
}
