// Package fixtures serves the dashboard and posts data from JSON files
// embedded in the binary.
package fixtures

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

//go:embed data/*.json
var files embed.FS

// Repository is a read-only FeedRepository over the embedded fixtures.
type Repository struct {
	trading domain.TradingData
	posts   []domain.Post
}

var _ ports.FeedRepository = (*Repository)(nil)

// Load decodes the embedded fixtures once.
func Load() (*Repository, error) {
	r := &Repository{}
	if err := decode("data/trading.json", &r.trading); err != nil {
		return nil, err
	}
	if err := decode("data/posts.json", &r.posts); err != nil {
		return nil, err
	}
	return r, nil
}

func decode(name string, v any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}

// TradingData returns a copy so callers can't mutate the fixture.
func (r *Repository) TradingData(context.Context) (*domain.TradingData, error) {
	td := r.trading
	td.PriceHistory = append([]domain.PricePoint(nil), r.trading.PriceHistory...)
	td.Candles = append([]domain.Candle(nil), r.trading.Candles...)
	td.Portfolio = append([]domain.PortfolioAsset(nil), r.trading.Portfolio...)
	td.RecentTrades = append([]domain.Trade(nil), r.trading.RecentTrades...)
	return &td, nil
}

func (r *Repository) Posts(context.Context) ([]domain.Post, error) {
	return append([]domain.Post(nil), r.posts...), nil
}
