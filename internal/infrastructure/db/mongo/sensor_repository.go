package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

const collectionSensorData = "sensordatas"

// SensorRepository implements ports.SensorRepository on the sensordatas collection.
type SensorRepository struct {
	col *mongo.Collection
}

func NewSensorRepository(store *Store) ports.SensorRepository {
	return &SensorRepository{col: store.Collection(collectionSensorData)}
}

type sensorDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	BinLocation   string             `bson:"binLocation"`
	FillLevel     float64            `bson:"fillLevel"`
	FlameDetected bool               `bson:"flameDetected"`
	Timestamp     time.Time          `bson:"timestamp"`
	Version       int64              `bson:"__v"`
}

func (d sensorDoc) toDomain() *domain.SensorReading {
	return &domain.SensorReading{
		ID:            d.ID.Hex(),
		BinLocation:   d.BinLocation,
		FillLevel:     d.FillLevel,
		FlameDetected: d.FlameDetected,
		Timestamp:     d.Timestamp.UTC(),
	}
}

// Insert stores the reading and sets its ID.
func (r *SensorRepository) Insert(ctx context.Context, reading *domain.SensorReading) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := sensorDoc{
		BinLocation:   reading.BinLocation,
		FillLevel:     reading.FillLevel,
		FlameDetected: reading.FlameDetected,
		Timestamp:     reading.Timestamp.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert sensor reading: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		reading.ID = oid.Hex()
	}
	return nil
}

// Latest returns the reading with the newest timestamp.
func (r *SensorRepository) Latest(ctx context.Context) (*domain.SensorReading, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var doc sensorDoc
	if err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoSensorData
		}
		return nil, fmt.Errorf("find latest reading: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns up to filter.Limit readings, newest first.
func (r *SensorRepository) List(ctx context.Context, filter ports.SensorHistoryFilter) ([]*domain.SensorReading, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.BinLocation != "" {
		query["binLocation"] = filter.BinLocation
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []sensorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode readings: %w", err)
	}

	out := make([]*domain.SensorReading, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
