package repositories

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/organconnect/organconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmissionRepository archives accepted page forms.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, s *models.Submission) error
	// ListSubmissions returns the newest submissions first. An empty kind
	// matches every form.
	ListSubmissions(ctx context.Context, kind string, skip, limit int64) ([]models.Submission, error)
}

type MongoSubmissionRepository struct {
	collection *mongo.Collection
}

func NewMongoSubmissionRepository(db *mongo.Database) *MongoSubmissionRepository {
	return &MongoSubmissionRepository{collection: db.Collection("submissions")}
}

func (r *MongoSubmissionRepository) CreateSubmission(ctx context.Context, s *models.Submission) error {
	s.ID = primitive.NewObjectID()
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, s)
	return err
}

func (r *MongoSubmissionRepository) ListSubmissions(ctx context.Context, kind string, skip, limit int64) ([]models.Submission, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	submissions := []models.Submission{}
	if err = cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// MemorySubmissionRepository is used when no MongoDB is configured.
type MemorySubmissionRepository struct {
	mu          sync.RWMutex
	submissions []models.Submission
}

func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{}
}

func (r *MemorySubmissionRepository) CreateSubmission(_ context.Context, s *models.Submission) error {
	s.ID = primitive.NewObjectID()
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, *s)
	return nil
}

func (r *MemorySubmissionRepository) ListSubmissions(_ context.Context, kind string, skip, limit int64) ([]models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Submission{}
	for _, s := range slices.Backward(r.submissions) {
		if kind != "" && s.Kind != kind {
			continue
		}
		out = append(out, s)
	}
	if skip >= int64(len(out)) {
		return []models.Submission{}, nil
	}
	out = out[skip:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}
