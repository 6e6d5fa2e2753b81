package domain

import "time"

// TradingData is the dashboard fixture: stats cards, chart series and trades.
type TradingData struct {
	Stats        Stats            `json:"stats" bson:"stats"`
	PriceHistory []PricePoint     `json:"priceHistory" bson:"price_history"`
	Candles      []Candle         `json:"candlestickData" bson:"candles"`
	Portfolio    []PortfolioAsset `json:"portfolio" bson:"portfolio"`
	RecentTrades []Trade          `json:"recentTrades" bson:"recent_trades"`
}

type Stats struct {
	TotalValue         float64 `json:"totalValue" bson:"total_value"`
	DailyChange        float64 `json:"dailyChange" bson:"daily_change"`
	DailyChangePercent float64 `json:"dailyChangePercent" bson:"daily_change_percent"`
	TotalProfit        float64 `json:"totalProfit" bson:"total_profit"`
	TotalProfitPercent float64 `json:"totalProfitPercent" bson:"total_profit_percent"`
	ActivePositions    int     `json:"activePositions" bson:"active_positions"`
}

type PricePoint struct {
	Date   string  `json:"date" bson:"date"`
	Price  float64 `json:"price" bson:"price"`
	Volume float64 `json:"volume" bson:"volume"`
}

type Candle struct {
	Date  string  `json:"date" bson:"date"`
	Open  float64 `json:"open" bson:"open"`
	High  float64 `json:"high" bson:"high"`
	Low   float64 `json:"low" bson:"low"`
	Close float64 `json:"close" bson:"close"`
}

type PortfolioAsset struct {
	Symbol string  `json:"symbol" bson:"symbol"`
	Name   string  `json:"name" bson:"name"`
	Amount string  `json:"amount" bson:"amount"`
	Value  float64 `json:"value" bson:"value"`
	Change float64 `json:"change" bson:"change"`
}

// TradeSide is buy or sell.
type TradeSide string

const (
	TradeBuy  TradeSide = "buy"
	TradeSell TradeSide = "sell"
)

type Trade struct {
	ID     string    `json:"id" bson:"id"`
	Type   TradeSide `json:"type" bson:"type"`
	Asset  string    `json:"asset" bson:"asset"`
	Amount string    `json:"amount" bson:"amount"`
	Price  string    `json:"price" bson:"price"`
	Date   string    `json:"date" bson:"date"`
}

// Post is one entry of the community feed. Body is markdown.
type Post struct {
	ID        string    `json:"id" bson:"id"`
	Author    string    `json:"author" bson:"author"`
	Role      string    `json:"role" bson:"role"`
	Title     string    `json:"title" bson:"title"`
	Body      string    `json:"body" bson:"body"`
	Tags      []string  `json:"tags" bson:"tags"`
	Likes     int       `json:"likes" bson:"likes"`
	Comments  int       `json:"comments" bson:"comments"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
