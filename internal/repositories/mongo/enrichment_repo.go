package mongo

import (
	"context"
	"time"

	"github.com/speaksuit/speaksuit/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EnrichmentRepo interface {
	Insert(ctx context.Context, rec *models.EnrichmentRecord) error
	// ReplayByMeeting returns every record for the meeting oldest-first, the
	// order late joiners replay them in. Unbounded: the cursor is drained to
	// exhaustion so no record is silently dropped from a replay.
	ReplayByMeeting(ctx context.Context, meetingID string) ([]models.EnrichmentRecord, error)
}

type enrichmentRepo struct {
	col *mongo.Collection
}

func NewEnrichmentRepo(db *mongo.Database) EnrichmentRepo {
	return &enrichmentRepo{col: db.Collection("enrichments")}
}

func (r *enrichmentRepo) Insert(ctx context.Context, rec *models.EnrichmentRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, rec)
	return err
}

func (r *enrichmentRepo) ReplayByMeeting(ctx context.Context, meetingID string) ([]models.EnrichmentRecord, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"meeting_id": meetingID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EnrichmentRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
