package ports

import (
	"context"

	"github.com/tradepulse/dashboard/internal/core/domain"
)

// FeedRepository supplies the dashboard and posts data.
type FeedRepository interface {
	TradingData(ctx context.Context) (*domain.TradingData, error)
	Posts(ctx context.Context) ([]domain.Post, error)
}
