package ports

import (
	"context"

	"github.com/tradepulse/dashboard/internal/core/domain"
)

// StatsView holds the three stats cards with display-ready values.
type StatsView struct {
	TotalValue         string `json:"totalValue"`
	DailyChange        string `json:"dailyChange"`
	DailyChangePercent string `json:"dailyChangePercent"`
	DailyPositive      bool   `json:"dailyPositive"`
	TotalProfit        string `json:"totalProfit"`
	TotalProfitPercent string `json:"totalProfitPercent"`
	ProfitPositive     bool   `json:"profitPositive"`
	ActivePositions    int    `json:"activePositions"`
}

// AssetView is one portfolio row with its share of the total value.
type AssetView struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Value      string `json:"value"`
	Allocation string `json:"allocation"`
	Change     string `json:"change"`
	Positive   bool   `json:"positive"`
}

// TradeView is one row of the recent trades table.
type TradeView struct {
	ID     string           `json:"id"`
	Type   domain.TradeSide `json:"type"`
	Asset  string           `json:"asset"`
	Amount string           `json:"amount"`
	Price  string           `json:"price"`
	Total  string           `json:"total"`
	Date   string           `json:"date"`
}

// DashboardView is everything the dashboard page renders.
type DashboardView struct {
	User         *domain.User        `json:"user"`
	Initial      string              `json:"initial"`
	Stats        StatsView           `json:"stats"`
	PriceHistory []domain.PricePoint `json:"priceHistory"`
	Candles      []domain.Candle     `json:"candlestickData"`
	Portfolio    []AssetView         `json:"portfolio"`
	RecentTrades []TradeView         `json:"recentTrades"`
	TradeCount   int                 `json:"tradeCount"`
}

// PostView is a post with its markdown body rendered to HTML.
type PostView struct {
	domain.Post
	BodyHTML string `json:"bodyHtml"`
}

// PostsView is the posts page; CanPublish gates the create-post card.
type PostsView struct {
	User       *domain.User `json:"user"`
	CanPublish bool         `json:"canPublish"`
	Posts      []PostView   `json:"posts"`
}

type FeedService interface {
	Dashboard(ctx context.Context, user *domain.User) (*DashboardView, error)
	Posts(ctx context.Context, user *domain.User) (*PostsView, error)
	CanPublish(user *domain.User) bool
}
