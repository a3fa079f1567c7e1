package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/tenantgate"
)

// ErrFailedToConnectToMongo is returned when the registry collection
// cannot be reached within the configured attempts.
var ErrFailedToConnectToMongo = errors.New("failed to connect to mongo registry")

// MongoConfig configures the MongoDB-backed registry store.
type MongoConfig struct {
	ConnectionURL  string        `env:"REGISTRY_MONGO_URL"`                             // ConnectionURL is the URL of the registry database.
	Database       string        `env:"REGISTRY_MONGO_DATABASE" envDefault:"registry"`  // Database is the registry database name.
	Collection     string        `env:"REGISTRY_MONGO_COLLECTION" envDefault:"tenants"` // Collection is the tenant records collection name.
	ConnectTimeout time.Duration `env:"REGISTRY_MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
	RetryAttempts  int           `env:"REGISTRY_MONGO_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REGISTRY_MONGO_RETRY_INTERVAL" envDefault:"5s"`
}

// MongoStore serves tenant records from a MongoDB collection. Records are
// keyed by tenant ID in the _id field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore wraps an existing collection. Close is a no-op; the client
// stays owned by the caller.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// OpenMongoStore connects to the registry collection with retry and ping
// verification.
func OpenMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	for range cfg.RetryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return &MongoStore{
					client: client,
					coll:   client.Database(cfg.Database).Collection(cfg.Collection),
				}, nil
			}
			_ = client.Disconnect(ctx)
		}

		time.Sleep(cfg.RetryInterval)
	}

	return nil, ErrFailedToConnectToMongo
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, id tenantgate.ID) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tenantgate.ErrTenantNotFound
		}
		return nil, fmt.Errorf("registry: get tenant %d: %w", id, err)
	}
	return &rec, nil
}

// List implements Store. Records are returned in ID order.
func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	cursor, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("registry: list tenants: %w", err)
	}

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("registry: list tenants: %w", err)
	}
	return records, nil
}

// Upsert inserts a record or replaces an existing one.
func (s *MongoStore) Upsert(ctx context.Context, rec Record) error {
	rec.UpdatedAt = time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": int64(rec.ID)},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("registry: upsert tenant %d: %w", rec.ID, err)
	}
	return nil
}

// Healthcheck returns a probe over the underlying client. Stores built
// with NewMongoStore have no client and always report healthy.
func (s *MongoStore) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		if s.client == nil {
			return nil
		}
		return s.client.Ping(ctx, nil)
	}
}

// Close implements Store and disconnects the client when the store owns
// one.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
