// Package analytics persists dispatch outcomes to MongoDB and answers the
// aggregate queries behind the reporting endpoint. One document per outcome;
// the collection is append-only.
package analytics

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/repository"
)

// CollectionName is the outcome collection within the analytics database.
const CollectionName = "dispatch_outcomes"

type MongoOutcomeRepo struct {
	collection *mongo.Collection
}

func NewMongoOutcomeRepo(db *mongo.Database) repository.OutcomeRepository {
	return &MongoOutcomeRepo{collection: db.Collection(CollectionName)}
}

// Record inserts the batch's outcomes. Unordered so one bad document does
// not block the rest of the batch.
func (r *MongoOutcomeRepo) Record(ctx context.Context, outcomes []entity.DispatchOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	docs := make([]any, len(outcomes))
	for i, o := range outcomes {
		docs[i] = o
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("Record: %w", err)
	}
	return nil
}

// Aggregate counts outcomes in [from, to) grouped by status, frequency and
// platform. A zero from means no lower bound.
func (r *MongoOutcomeRepo) Aggregate(ctx context.Context, from, to time.Time) (*repository.OutcomeAggregate, error) {
	match := matchWindow(from, to)

	byStatus, err := r.groupCounts(ctx, match, "$status")
	if err != nil {
		return nil, fmt.Errorf("Aggregate: by status: %w", err)
	}
	byFrequency, err := r.groupCounts(ctx, match, "$frequency")
	if err != nil {
		return nil, fmt.Errorf("Aggregate: by frequency: %w", err)
	}
	byPlatform, err := r.groupCounts(ctx, match, "$platforms", bson.M{"$unwind": "$platforms"})
	if err != nil {
		return nil, fmt.Errorf("Aggregate: by platform: %w", err)
	}

	agg := &repository.OutcomeAggregate{
		ByStatus:    make(map[entity.OutcomeStatus]int64, len(byStatus)),
		ByFrequency: make(map[entity.Frequency]int64, len(byFrequency)),
		ByPlatform:  byPlatform,
	}
	for k, n := range byStatus {
		agg.ByStatus[entity.OutcomeStatus(k)] = n
		agg.Total += n
	}
	for k, n := range byFrequency {
		agg.ByFrequency[entity.Frequency(k)] = n
	}
	return agg, nil
}

func matchWindow(from, to time.Time) bson.M {
	window := bson.M{}
	if !from.IsZero() {
		window["$gte"] = from
	}
	if !to.IsZero() {
		window["$lt"] = to
	}
	if len(window) == 0 {
		return bson.M{}
	}
	return bson.M{"recorded_at": window}
}

// groupCounts runs a $match / $group count pipeline keyed on field, with
// optional stages (such as $unwind) between the two.
func (r *MongoOutcomeRepo) groupCounts(ctx context.Context, match bson.M, field string, between ...bson.M) (map[string]int64, error) {
	pipeline := []bson.M{{"$match": match}}
	pipeline = append(pipeline, between...)
	pipeline = append(pipeline, bson.M{"$group": bson.M{
		"_id":   field,
		"count": bson.M{"$sum": 1},
	}})

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var rows []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// EnsureIndexes creates the recorded_at index the aggregation queries rely
// on. Safe to call on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recorded_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("EnsureIndexes: %w", err)
	}
	return nil
}
