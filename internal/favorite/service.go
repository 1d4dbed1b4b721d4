package favorite

import (
	"context"
	"fmt"
	"log"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// EventPublisher emits analytics events for favorites mutations,
// best-effort.
type EventPublisher interface {
	PublishProductFavorited(ctx context.Context, userID, lineID, productID string) error
	PublishProductUnfavorited(ctx context.Context, userID, lineID string) error
}

type Service struct {
	repo    Repository
	catalog catalog.Provider
	events  EventPublisher
	logger  *log.Logger
}

func NewService(repo Repository, provider catalog.Provider, events EventPublisher, logger *log.Logger) *Service {
	return &Service{repo: repo, catalog: provider, events: events, logger: logger}
}

func (s *Service) GetFavorites(ctx context.Context, userID string) (*View, error) {
	f, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &View{ID: f.ID, UserID: f.UserID, Items: items}, nil
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

func (s *Service) AddItem(ctx context.Context, userID, productID string) (*LineView, error) {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("resolve product %s: %w", productID, err)
	}

	l, err := s.repo.AddLine(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishProductFavorited(ctx, userID, l.ID, l.ProductID); err != nil {
			s.logger.Printf("publish product favorited: %v", err)
		}
	}

	view, err := s.lineView(ctx, *l)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *Service) UpdateItem(ctx context.Context, userID, lineID, productID string) (*LineView, error) {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("resolve product %s: %w", productID, err)
	}

	l, err := s.repo.UpdateLine(ctx, userID, lineID, productID)
	if err != nil {
		return nil, err
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
		if err := s.events.PublishProductUnfavorited(ctx, userID, lineID); err != nil {
			s.logger.Printf("publish product unfavorited: %v", err)
		}
	}
	return nil
}

func (s *Service) lineView(ctx context.Context, l Line) (LineView, error) {
	p, err := s.catalog.GetProduct(ctx, l.ProductID)
	if err != nil {
		return LineView{}, fmt.Errorf("resolve product %s: %w", l.ProductID, err)
	}
	return LineView{ID: l.ID, Product: p}, nil
}
