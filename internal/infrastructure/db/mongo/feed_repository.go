package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

const (
	collectionPosts   = "posts"
	collectionTrading = "trading"
)

// FeedRepository reads posts and the trading snapshot from MongoDB.
// The trading collection holds a single document.
type FeedRepository struct {
	posts   *mongo.Collection
	trading *mongo.Collection
}

var _ ports.FeedRepository = (*FeedRepository)(nil)

func NewFeedRepository(db *mongo.Database) *FeedRepository {
	return &FeedRepository{
		posts:   db.Collection(collectionPosts),
		trading: db.Collection(collectionTrading),
	}
}

func (r *FeedRepository) TradingData(ctx context.Context) (*domain.TradingData, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var td domain.TradingData
	err := r.trading.FindOne(ctx, bson.M{}).Decode(&td)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find trading data: %w", err)
	}
	return &td, nil
}

// Posts returns every post, newest first.
func (r *FeedRepository) Posts(ctx context.Context) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]domain.Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}
