package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ppiankov/aletheia/internal/model"
)

const (
	defaultMongoDatabase   = "stratosphere"
	defaultMongoCollection = "analysis_records"
)

// MongoStore keeps analysis records in a MongoDB collection
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type mongoRecord struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty"`
	InputType string                 `bson:"input_type"`
	Payload   map[string]interface{} `bson:"payload"`
	Result    map[string]interface{} `bson:"result"`
	CreatedAt time.Time              `bson:"created_at"`
}

// NewMongoStore connects, pings and ensures the input_type and created_at
// indexes. The database named in the URI wins over database.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	if name := databaseFromURI(uri); name != "" {
		database = name
	}
	if database == "" {
		database = defaultMongoDatabase
	}
	if collection == "" {
		collection = defaultMongoCollection
	}

	s := &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func newMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: coll.Database().Client(), collection: coll}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "input_type", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Insert stores rec and returns the generated ObjectID as hex
func (s *MongoStore) Insert(ctx context.Context, rec model.AnalysisRecord) (string, error) {
	doc := mongoRecord{
		InputType: string(rec.InputType),
		Payload:   rec.Payload,
		Result:    rec.Result,
		CreatedAt: rec.CreatedAt,
	}
	res, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// List returns records sorted by created_at descending
func (s *MongoStore) List(ctx context.Context, limit, skip int) ([]model.AnalysisRecord, error) {
	limit, skip = listBounds(limit, skip)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cur, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	records := make([]model.AnalysisRecord, 0, limit)
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, model.AnalysisRecord{
			ID:        doc.ID.Hex(),
			InputType: model.InputKind(doc.InputType),
			Payload:   doc.Payload,
			Result:    doc.Result,
			CreatedAt: doc.CreatedAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Close disconnects the client
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// databaseFromURI returns the path component of a mongodb URI, if any
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return strings.Trim(u.Path, "/")
}
