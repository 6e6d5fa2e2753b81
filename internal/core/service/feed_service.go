package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

const (
	displayCurrency = money.USD
	tradeDateLayout = "Jan 2, 03:04 PM"
)

// FeedService builds the dashboard and posts view models from a feed source.
type FeedService struct {
	repo           ports.FeedRepository
	privilegedRole string
	md             goldmark.Markdown
	log            zerolog.Logger
}

var _ ports.FeedService = (*FeedService)(nil)

func NewFeedService(repo ports.FeedRepository, privilegedRole string, log zerolog.Logger) *FeedService {
	if privilegedRole == "" {
		privilegedRole = domain.RoleMentor
	}
	return &FeedService{
		repo:           repo,
		privilegedRole: privilegedRole,
		md:             goldmark.New(),
		log:            log.With().Str("component", "feed_service").Logger(),
	}
}

// CanPublish reports whether user may see the create-post card.
func (s *FeedService) CanPublish(user *domain.User) bool {
	return user != nil && user.Role == s.privilegedRole
}

func (s *FeedService) Dashboard(ctx context.Context, user *domain.User) (*ports.DashboardView, error) {
	td, err := s.repo.TradingData(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trading data: %w", err)
	}

	trades, err := tradeViews(td.RecentTrades)
	if err != nil {
		return nil, err
	}

	view := &ports.DashboardView{
		User:         user.Clone(),
		Stats:        statsView(td.Stats),
		PriceHistory: td.PriceHistory,
		Candles:      td.Candles,
		Portfolio:    assetViews(td.Portfolio),
		RecentTrades: trades,
		TradeCount:   len(trades),
	}
	if user != nil {
		view.Initial = user.Initial()
	}
	return view, nil
}

func (s *FeedService) Posts(ctx context.Context, user *domain.User) (*ports.PostsView, error) {
	posts, err := s.repo.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	views := make([]ports.PostView, 0, len(posts))
	for _, p := range posts {
		var buf bytes.Buffer
		if err := s.md.Convert([]byte(p.Body), &buf); err != nil {
			// fall back to the raw body; one bad post shouldn't blank the page
			s.log.Warn().Err(err).Str("post_id", p.ID).Msg("render markdown")
			views = append(views, ports.PostView{Post: p})
			continue
		}
		views = append(views, ports.PostView{Post: p, BodyHTML: buf.String()})
	}

	return &ports.PostsView{
		User:       user.Clone(),
		CanPublish: s.CanPublish(user),
		Posts:      views,
	}, nil
}

func statsView(st domain.Stats) ports.StatsView {
	return ports.StatsView{
		TotalValue:         displayMoney(decimal.NewFromFloat(st.TotalValue)),
		DailyChange:        displayMoney(decimal.NewFromFloat(st.DailyChange)),
		DailyChangePercent: signedPercent(decimal.NewFromFloat(st.DailyChangePercent)),
		DailyPositive:      st.DailyChangePercent >= 0,
		TotalProfit:        displayMoney(decimal.NewFromFloat(st.TotalProfit)),
		TotalProfitPercent: signedPercent(decimal.NewFromFloat(st.TotalProfitPercent)),
		ProfitPositive:     st.TotalProfitPercent >= 0,
		ActivePositions:    st.ActivePositions,
	}
}

// assetViews computes each asset's share of the portfolio, rounded to whole percent.
func assetViews(assets []domain.PortfolioAsset) []ports.AssetView {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(decimal.NewFromFloat(a.Value))
	}

	out := make([]ports.AssetView, 0, len(assets))
	for _, a := range assets {
		value := decimal.NewFromFloat(a.Value)
		alloc := decimal.Zero
		if !total.IsZero() {
			alloc = value.Div(total).Mul(decimal.NewFromInt(100)).Round(0)
		}
		out = append(out, ports.AssetView{
			Symbol:     a.Symbol,
			Name:       a.Name,
			Amount:     a.Amount,
			Value:      displayMoney(value),
			Allocation: alloc.String() + "%",
			Change:     signedPercent(decimal.NewFromFloat(a.Change)),
			Positive:   a.Change >= 0,
		})
	}
	return out
}

// tradeViews computes total = amount * price for every trade.
func tradeViews(trades []domain.Trade) ([]ports.TradeView, error) {
	out := make([]ports.TradeView, 0, len(trades))
	for _, t := range trades {
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return nil, fmt.Errorf("trade %s amount %q: %w", t.ID, t.Amount, err)
		}
		price, err := decimal.NewFromString(t.Price)
		if err != nil {
			return nil, fmt.Errorf("trade %s price %q: %w", t.ID, t.Price, err)
		}

		date := t.Date
		if ts, err := time.Parse(time.RFC3339, t.Date); err == nil {
			date = ts.UTC().Format(tradeDateLayout)
		}

		out = append(out, ports.TradeView{
			ID:     t.ID,
			Type:   t.Type,
			Asset:  t.Asset,
			Amount: amount.String(),
			Price:  displayMoney(price),
			Total:  displayMoney(amount.Mul(price)),
			Date:   date,
		})
	}
	return out, nil
}

// displayMoney formats amount in the display currency, e.g. "$1,234.56".
func displayMoney(amount decimal.Decimal) string {
	cur := money.GetCurrency(displayCurrency)
	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, displayCurrency).Display()
}

func signedPercent(p decimal.Decimal) string {
	if p.Sign() >= 0 {
		return "+" + p.String() + "%"
	}
	return p.String() + "%"
}
