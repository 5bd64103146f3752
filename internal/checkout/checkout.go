// Package checkout converts cart contents into an order submission and
// reconciles the outcome back into the cart.
package checkout

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"table-orders/internal/cart"
	"table-orders/internal/logger"
	"table-orders/internal/models"
)

// OrderCreator is the order lifecycle operation the submitter depends on
type OrderCreator interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
}

const defaultTimeout = 30 * time.Second

// Submitter submits a cart as a new order. Creating an order is not
// idempotent, so a submission already in flight blocks further submit calls
// until it resolves; the guard is released when the request finishes or its
// deadline expires, never left set permanently.
type Submitter struct {
	creator  OrderCreator
	log      *logger.Logger
	timeout  time.Duration
	inFlight atomic.Bool
}

// NewSubmitter creates a submitter with the default submission timeout
func NewSubmitter(creator OrderCreator, log *logger.Logger) *Submitter {
	return &Submitter{
		creator: creator,
		log:     log,
		timeout: defaultTimeout,
	}
}

// Submit validates the cart, sends it to the order lifecycle and clears the
// cart on success. On failure the cart is left untouched so the customer can
// retry. A second submit while one is pending is rejected, not queued.
func (s *Submitter) Submit(ctx context.Context, c *cart.Cart) (*models.Order, error) {
	requestID := logger.GenerateRequestID()

	lines := c.Lines()
	if len(lines) == 0 {
		return nil, &models.ValidationError{Field: "items", Reason: "cart is empty"}
	}
	if strings.TrimSpace(c.TableNumber()) == "" {
		return nil, &models.ValidationError{Field: "table_number", Reason: "table number is required"}
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, &models.SubmissionError{Reason: "submission already in progress"}
	}
	defer s.inFlight.Store(false)

	req := buildRequest(c, lines)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	order, err := s.creator.CreateOrder(ctx, req)
	if err != nil {
		s.log.Error("order_submission_failed", "Failed to submit order", requestID, err, map[string]interface{}{
			"table_number": req.TableNumber,
			"item_count":   len(req.Items),
		})
		return nil, &models.SubmissionError{Reason: "failed to submit order", Err: err}
	}

	c.Clear()

	s.log.Info("order_submitted", "Order submitted", requestID, map[string]interface{}{
		"order_id":     order.ID,
		"table_number": order.TableNumber,
		"total":        order.Total.String(),
	})

	return order, nil
}

// buildRequest snapshots the cart lines into an immutable submission payload.
// The total is summed from the snapshotted lines, not read from the cart
// again, so the payload stays internally consistent even if the cart mutates
// after the snapshot.
func buildRequest(c *cart.Cart, lines []cart.Line) *models.CreateOrderRequest {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		items = append(items, models.OrderItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			Price:      line.UnitPrice,
			Extras:     line.Extras,
			Removals:   line.Removals,
			LineTotal:  line.Total,
		})
		total = total.Add(line.Total)
	}
	return &models.CreateOrderRequest{
		TableNumber: c.TableNumber(),
		Items:       items,
		Total:       total,
	}
}
