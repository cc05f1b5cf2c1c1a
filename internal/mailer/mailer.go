// Package mailer sends the storefront's transactional email over SMTP.
package mailer

import (
	"fmt"
	"io"
	"log"
	"strings"

	"healside/internal/domain"
	gomail "gopkg.in/gomail.v2"
)

// Mailer formats and sends order confirmations and stock alerts. With no
// SMTP host configured it logs and skips sending instead of failing.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	shopName string
	logger   *log.Logger
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	ShopName string
}

func New(cfg Config, logger *log.Logger) *Mailer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Mailer{from: cfg.From, shopName: cfg.ShopName, logger: logger}
	if m.shopName == "" {
		m.shopName = "Healside"
	}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Enabled reports whether an SMTP host was configured.
func (m *Mailer) Enabled() bool { return m.dialer != nil }

func (m *Mailer) SendOrderConfirmation(order domain.Order, to string) error {
	if to == "" {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Thank you for your order!</h2>")
	fmt.Fprintf(&b, "<p>Your order #%d has been received and is being processed.</p>", order.ID)
	b.WriteString("<table><tr><th align=\"left\">Item</th><th>Qty</th><th align=\"right\">Price</th></tr>")
	for _, item := range order.Items {
		name := fmt.Sprintf("product #%d", item.ProductID)
		if item.Product != nil {
			name = item.Product.Name
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td align=\"center\">%d</td><td align=\"right\">%s</td></tr>",
			name, item.Quantity, formatCents(item.PriceCents*int64(item.Quantity)))
	}
	fmt.Fprintf(&b, "</table><p><strong>Total: %s</strong></p>", formatCents(order.TotalCents))
	fmt.Fprintf(&b, "<p>We will let you know as soon as your order ships.</p>")

	return m.send(to, fmt.Sprintf("%s order confirmation #%d", m.shopName, order.ID), b.String())
}

func (m *Mailer) SendLowStockAlert(products []domain.Product, to string) error {
	if to == "" || len(products) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("<h2>Low stock alert</h2><p>The following products are running low:</p><ul>")
	for _, p := range products {
		fmt.Fprintf(&b, "<li>%s: %d left (threshold %d)</li>", p.Name, p.StockQuantity, p.LowStockThreshold)
	}
	b.WriteString("</ul><p>Restock soon to avoid missed sales.</p>")

	return m.send(to, fmt.Sprintf("%s low stock alert", m.shopName), b.String())
}

func (m *Mailer) send(to, subject, html string) error {
	if m.dialer == nil {
		m.logger.Printf("mailer: smtp not configured, skipping %q to %s", subject, to)
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	return m.dialer.DialAndSend(msg)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
