package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/organconnect/organconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentRepository serves the read-only lists the pages render.
type ContentRepository interface {
	Reels(ctx context.Context) ([]models.FeedItem, error)
	Posts(ctx context.Context) ([]models.FeedItem, error)
	Events(ctx context.Context) ([]models.Event, error)
	FAQs(ctx context.Context) ([]models.FAQ, error)
}

// StaticContentRepository serves the compiled-in catalog.
type StaticContentRepository struct{}

func NewStaticContentRepository() StaticContentRepository { return StaticContentRepository{} }

func (StaticContentRepository) Reels(context.Context) ([]models.FeedItem, error) {
	return append([]models.FeedItem(nil), defaultReels...), nil
}

func (StaticContentRepository) Posts(context.Context) ([]models.FeedItem, error) {
	return append([]models.FeedItem(nil), defaultPosts...), nil
}

func (StaticContentRepository) Events(context.Context) ([]models.Event, error) {
	return append([]models.Event(nil), defaultEvents...), nil
}

func (StaticContentRepository) FAQs(context.Context) ([]models.FAQ, error) {
	return append([]models.FAQ(nil), defaultFAQs...), nil
}

// MongoContentRepository reads the catalog from the reels, posts, events and
// faqs collections.
type MongoContentRepository struct {
	reels  *mongo.Collection
	posts  *mongo.Collection
	events *mongo.Collection
	faqs   *mongo.Collection
	log    *slog.Logger
}

func NewMongoContentRepository(db *mongo.Database, log *slog.Logger) *MongoContentRepository {
	return &MongoContentRepository{
		reels:  db.Collection("reels"),
		posts:  db.Collection("posts"),
		events: db.Collection("events"),
		faqs:   db.Collection("faqs"),
		log:    log,
	}
}

// Seed fills every empty collection with the compiled-in catalog.
func (r *MongoContentRepository) Seed(ctx context.Context) error {
	seeds := []struct {
		coll *mongo.Collection
		docs []any
	}{
		{r.reels, toDocs(defaultReels)},
		{r.posts, toDocs(defaultPosts)},
		{r.events, toDocs(defaultEvents)},
		{r.faqs, toDocs(defaultFAQs)},
	}
	for _, s := range seeds {
		n, err := s.coll.CountDocuments(ctx, bson.D{})
		if err != nil {
			return fmt.Errorf("count %s: %w", s.coll.Name(), err)
		}
		if n > 0 {
			continue
		}
		if _, err := s.coll.InsertMany(ctx, s.docs); err != nil {
			return fmt.Errorf("seed %s: %w", s.coll.Name(), err)
		}
		r.log.Info("Seeded content collection", "collection", s.coll.Name(), "documents", len(s.docs))
	}
	return nil
}

func (r *MongoContentRepository) Reels(ctx context.Context) ([]models.FeedItem, error) {
	return findAll[models.FeedItem](ctx, r.reels, options.Find().SetSort(bson.D{{Key: "key.item_id", Value: 1}}))
}

func (r *MongoContentRepository) Posts(ctx context.Context) ([]models.FeedItem, error) {
	return findAll[models.FeedItem](ctx, r.posts, options.Find().SetSort(bson.D{{Key: "key.item_id", Value: 1}}))
}

func (r *MongoContentRepository) Events(ctx context.Context) ([]models.Event, error) {
	return findAll[models.Event](ctx, r.events, options.Find())
}

func (r *MongoContentRepository) FAQs(ctx context.Context) ([]models.FAQ, error) {
	return findAll[models.FAQ](ctx, r.faqs, options.Find())
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toDocs[T any](items []T) []any {
	docs := make([]any, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}
