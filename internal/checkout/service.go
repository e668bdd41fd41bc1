// Package checkout implements the mocked payment flow: totals are computed
// with decimal arithmetic, the "payment" is a fixed latency that always
// succeeds, and the confirmation is a durable orders row.
package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/samcharmz/charmz-backend/internal/shop"
	"github.com/samcharmz/charmz-backend/pkg/db/models"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
	"github.com/samcharmz/charmz-backend/pkg/metrics"
	"github.com/samcharmz/charmz-backend/pkg/types"
)

// PlaceInput carries the shipping form. Payment fields never leave the
// client; the flow is mocked end to end.
type PlaceInput struct {
	Email    string
	FullName string
	Address  string
	City     string
	Postcode string
}

// Confirmation is returned once the mock payment settles.
type Confirmation struct {
	Order *models.Order
	State shop.State
}

type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// Service exposes the mocked checkout flow.
type Service interface {
	Place(ctx context.Context, sessionID string, input PlaceInput) (*Confirmation, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Shop    shop.Service
	Repo    orderStore
	Delay   time.Duration
	Logger  *logger.Logger
	Metrics *metrics.ShopMetrics
}

type service struct {
	shop    shop.Service
	repo    orderStore
	delay   time.Duration
	logg    *logger.Logger
	metrics *metrics.ShopMetrics
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Shop == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop service is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repository is required")
	}
	return &service{
		shop:    params.Shop,
		repo:    params.Repo,
		delay:   params.Delay,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// Place settles the mock payment for the session's cart: it requires a
// non-empty cart, waits out the simulated latency, writes the order, and
// clears the cart in the same logical step.
func (s *service) Place(ctx context.Context, sessionID string, input PlaceInput) (*Confirmation, error) {
	started := time.Now()

	state, err := s.shop.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(state.Cart) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines, total, err := buildLines(state.Cart)
	if err != nil {
		return nil, err
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:        uuid.New(),
		SessionID: sessionID,
		Email:     resolveEmail(input.Email, state.User),
		Lines:     lines,
		Total:     types.FormatPrice(total),
		PlacedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving order")
	}

	cleared, err := s.shop.Dispatch(ctx, sessionID, shop.ClearCart{})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCheckout(time.Since(started))
	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "order placed")
	}

	return &Confirmation{Order: order, State: cleared}, nil
}

// Get loads an order for the confirmation screen.
func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

func buildLines(cart []shop.CartLine) (types.OrderLineList, decimal.Decimal, error) {
	lines := make(types.OrderLineList, 0, len(cart))
	total := decimal.Zero
	for _, line := range cart {
		price, err := types.ParsePrice(line.Price)
		if err != nil {
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing cart line price")
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		lines = append(lines, types.OrderLine{
			ProductID: line.ID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}
	return lines, total, nil
}

func resolveEmail(submitted string, user *shop.User) string {
	submitted = strings.TrimSpace(submitted)
	if submitted != "" {
		return strings.ToLower(submitted)
	}
	if user != nil {
		return user.Email
	}
	return ""
}

// wait blocks for the simulated payment latency, aborting when the caller
// goes away so a cancelled request never places a late order.
func (s *service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "checkout cancelled")
	case <-timer.C:
		return nil
	}
}
