package cart

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// EventPublisher emits analytics events for line mutations. Publishing is
// best-effort; failures are logged and never fail the request.
type EventPublisher interface {
	PublishCartItemAdded(ctx context.Context, userID, cartID, lineID, productID string, quantity int) error
	PublishCartItemUpdated(ctx context.Context, userID, cartID, lineID, productID string, quantity int) error
	PublishCartItemRemoved(ctx context.Context, userID, lineID string) error
}

// Service composes the repository with the catalog read-model: it validates
// product references on write and derives line and cart totals from current
// catalog prices on read.
type Service struct {
	repo    Repository
	catalog catalog.Provider
	events  EventPublisher
	logger  *log.Logger
}

func NewService(repo Repository, provider catalog.Provider, events EventPublisher, logger *log.Logger) *Service {
	return &Service{repo: repo, catalog: provider, events: events, logger: logger}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*View, error) {
	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &View{
		ID:     c.ID,
		UserID: c.UserID,
		Items:  items,
	}
	for _, it := range items {
		view.TotalPrice += it.TotalPrice
	}
	return view, nil
}

func (s *Service) ListItems(ctx context.Context, userID string) ([]LineView, error) {
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]LineView, 0, len(lines))
	for _, l := range lines {
		view, err := s.lineView(ctx, l)
		if err != nil {
			return nil, err
		}
		items = append(items, view)
	}
	return items, nil
}

func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*LineView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	// Validate the reference before mutating anything.
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("resolve product %s: %w", productID, err)
	}

	l, err := s.repo.AddLine(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishCartItemAdded(ctx, userID, l.CartID, l.ID, l.ProductID, l.Quantity); err != nil {
			s.logger.Printf("publish cart item added: %v", err)
		}
	}

	view, err := s.lineView(ctx, *l)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *Service) UpdateItem(ctx context.Context, userID, lineID string, quantity int) (*LineView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	l, err := s.repo.UpdateLine(ctx, userID, lineID, quantity)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishCartItemUpdated(ctx, userID, l.CartID, l.ID, l.ProductID, l.Quantity); err != nil {
			s.logger.Printf("publish cart item updated: %v", err)
		}
	}

	view, err := s.lineView(ctx, *l)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, lineID string) error {
	if err := s.repo.RemoveLine(ctx, userID, lineID); err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.PublishCartItemRemoved(ctx, userID, lineID); err != nil {
			s.logger.Printf("publish cart item removed: %v", err)
		}
	}
	return nil
}

func (s *Service) lineView(ctx context.Context, l Line) (LineView, error) {
	p, err := s.catalog.GetProduct(ctx, l.ProductID)
	if err != nil {
		return LineView{}, fmt.Errorf("resolve product %s: %w", l.ProductID, err)
	}

	return LineView{
		ID:         l.ID,
		Product:    p,
		Quantity:   l.Quantity,
		TotalPrice: int64(l.Quantity) * p.Price,
	}, nil
}
