// Package notify delivers transactional emails off the request path. Events
// are enqueued after the database work commits; delivery failures are logged
// and retried but never surface to the caller.
package notify

import (
	"io"
	"log"
	"time"

	"healside/internal/domain"
)

// Mailer sends the storefront's transactional mail.
type Mailer interface {
	SendOrderConfirmation(order domain.Order, to string) error
	SendLowStockAlert(products []domain.Product, to string) error
}

// Event is a unit of mail work.
type Event interface {
	deliver(m Mailer) error
	name() string
}

// OrderPlaced asks for an order confirmation email.
type OrderPlaced struct {
	Order domain.Order
	Email string
}

func (e OrderPlaced) deliver(m Mailer) error { return m.SendOrderConfirmation(e.Order, e.Email) }
func (e OrderPlaced) name() string           { return "order-placed" }

// LowStock asks for a restock alert to the shop admin.
type LowStock struct {
	Products []domain.Product
	Email    string
}

func (e LowStock) deliver(m Mailer) error { return m.SendLowStockAlert(e.Products, e.Email) }
func (e LowStock) name() string           { return "low-stock" }

// Dispatcher serializes event delivery on a single background goroutine.
type Dispatcher struct {
	mailer   Mailer
	logger   *log.Logger
	events   chan Event
	done     chan struct{}
	attempts int
	backoff  time.Duration
}

func NewDispatcher(mailer Mailer, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Dispatcher{
		mailer:   mailer,
		logger:   logger,
		events:   make(chan Event, 64),
		done:     make(chan struct{}),
		attempts: 3,
		backoff:  2 * time.Second,
	}
}

// Start launches the delivery goroutine.
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)
		for ev := range d.events {
			d.send(ev)
		}
	}()
}

// Stop drains queued events and waits for delivery to finish.
func (d *Dispatcher) Stop() {
	close(d.events)
	<-d.done
}

// Enqueue hands an event to the dispatcher. A full queue drops the event
// with a log line rather than blocking the request.
func (d *Dispatcher) Enqueue(ev Event) {
	select {
	case d.events <- ev:
	default:
		d.logger.Printf("notify: queue full, dropping %s event", ev.name())
	}
}

func (d *Dispatcher) send(ev Event) {
	var err error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if err = ev.deliver(d.mailer); err == nil {
			return
		}
		d.logger.Printf("notify: %s delivery attempt %d/%d failed: %v", ev.name(), attempt, d.attempts, err)
		if attempt < d.attempts {
			time.Sleep(d.backoff)
		}
	}
	d.logger.Printf("notify: giving up on %s event: %v", ev.name(), err)
}
