// Package orders places and progresses guest orders.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foody/internal/cart"
	"foody/internal/logging"
	"foody/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidType     = errors.New("invalid order type")
	ErrInvalidPrepTime = errors.New("invalid preparation time")
)

// MaxPrepMinutes bounds the preparation time a guest order may ask for
const MaxPrepMinutes = 240

// Store persists orders and resolves menu items
type Store interface {
	cart.ItemLookup
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrdersSince(ctx context.Context, since time.Time) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, order *models.Order) error
}

// Notifier is told about every new order and status change
type Notifier interface {
	OrderChanged(order models.Order)
}

// Recorder receives order metrics
type Recorder interface {
	ObserveOrder(order models.Order)
}

// PlaceRequest is what the guest submits at checkout
type PlaceRequest struct {
	Lines           []cart.Line      `json:"items"`
	Type            models.OrderType `json:"type"`
	TableNumber     string           `json:"table_number,omitempty"`
	PreparationTime int              `json:"preparation_time,omitempty"`
}

// Service implements order placement and the kitchen status flow
type Service struct {
	store       Store
	pricer      cart.Pricer
	defaultPrep int
	notifier    Notifier
	recorder    Recorder
	now         func() time.Time
	log         zerolog.Logger
}

// NewService creates an order service. notifier and recorder may be nil.
func NewService(store Store, pricer cart.Pricer, defaultPrepMinutes int, notifier Notifier, recorder Recorder) *Service {
	return &Service{
		store:       store,
		pricer:      pricer,
		defaultPrep: defaultPrepMinutes,
		notifier:    notifier,
		recorder:    recorder,
		now:         time.Now,
		log:         logging.With("orders"),
	}
}

// Quote prices lines against the live menu without placing an order
func (s *Service) Quote(ctx context.Context, lines []cart.Line) (*cart.Quote, error) {
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, cart.ErrBadQuantity
		}
	}
	return s.pricer.Quote(ctx, s.store, cart.New(lines...))
}

// Place prices the cart and stores a pending order
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*models.Order, error) {
	if req.Type == "" {
		req.Type = models.OrderTypeDineIn
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}
	if req.PreparationTime > MaxPrepMinutes {
		return nil, fmt.Errorf("%w: %d minutes exceeds %d", ErrInvalidPrepTime, req.PreparationTime, MaxPrepMinutes)
	}

	quote, err := s.Quote(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	prep := req.PreparationTime
	if prep <= 0 {
		prep = s.defaultPrep
	}
	now := s.now()
	ready := now.Add(time.Duration(prep) * time.Minute)

	order := &models.Order{
		ID:                 models.NewID("order"),
		Items:              quote.OrderItems(),
		Status:             models.OrderStatusPending,
		Type:               req.Type,
		TableNumber:        req.TableNumber,
		Subtotal:           quote.Subtotal,
		Tax:                quote.Tax,
		Total:              quote.Total,
		PreparationTime:    prep,
		EstimatedReadyTime: &ready,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("order_id", order.ID).
		Str("type", string(order.Type)).
		Float64("total", order.Total).
		Int("items", order.ItemCount()).
		Msg("order placed")

	if s.recorder != nil {
		s.recorder.ObserveOrder(*order)
	}
	s.notify(*order)
	return order, nil
}

// Get returns one order
func (s *Service) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// Today returns the orders placed since local midnight
func (s *Service) Today(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrdersSince(ctx, StartOfDay(s.now()))
}

// UpdateStatus moves an order to status. Entering "preparing" restarts the
// ready-time estimate from now.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if status == models.OrderStatusPreparing {
		ready := s.now().Add(time.Duration(order.PreparationTime) * time.Minute)
		order.EstimatedReadyTime = &ready
	}

	if err := s.store.UpdateOrderStatus(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info().Str("order_id", id).Str("status", string(status)).Msg("order status updated")
	s.notify(*order)
	return order, nil
}

func (s *Service) notify(order models.Order) {
	if s.notifier != nil {
		s.notifier.OrderChanged(order)
	}
}

// StartOfDay returns local midnight for t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
