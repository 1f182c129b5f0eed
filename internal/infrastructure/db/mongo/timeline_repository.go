package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

const collectionEvents = "tracking_events"

// eventDocument is one row of the tracking_events collection.
type eventDocument struct {
	TrackingNumber       string `bson:"tracking_number"`
	domain.TrackingEvent `bson:",inline"`
	RecordedAt           time.Time `bson:"recorded_at"`
}

// TimelineRepository implements ports.TimelineRepository using MongoDB. The
// unique (tracking_number, event_id) index makes AppendEvent safe across
// processes.
type TimelineRepository struct {
	col *mongo.Collection
}

var _ ports.TimelineRepository = (*TimelineRepository)(nil)

// NewTimelineRepository creates a new TimelineRepository.
func NewTimelineRepository(db *mongo.Database) *TimelineRepository {
	return &TimelineRepository{col: db.Collection(collectionEvents)}
}

// LoadTimeline returns the stored events sorted by timestamp.
func (r *TimelineRepository) LoadTimeline(ctx context.Context, trackingNumber string) ([]domain.TrackingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "recorded_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"tracking_number": trackingNumber}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	events := make([]domain.TrackingEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, d.TrackingEvent)
	}
	return events, nil
}

// AppendEvent inserts one event.
func (r *TimelineRepository) AppendEvent(ctx context.Context, trackingNumber string, ev domain.TrackingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ev.Timestamp = ev.Timestamp.UTC()
	_, err := r.col.InsertOne(ctx, eventDocument{
		TrackingNumber: trackingNumber,
		TrackingEvent:  ev,
		RecordedAt:     time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateEvent
	}
	return err
}

// EnsureIndexes creates the uniqueness and lookup indexes.
func (r *TimelineRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tracking_number", Value: 1}, {Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "tracking_number", Value: 1}, {Key: "timestamp", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
