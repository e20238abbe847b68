package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ppiankov/aletheia/internal/model"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert returns object id", func(mt *mtest.T) {
		s := newMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := s.Insert(context.Background(), testRecord(mt.T, "Vaccines cause X", time.Now()))

		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(mt, err)
	})

	mt.Run("list decodes records", func(mt *mtest.T) {
		s := newMongoStoreFromCollection(mt.Coll)
		oid := primitive.NewObjectID()
		created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()

		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "input_type", Value: "url"},
			{Key: "payload", Value: bson.D{{Key: "url", Value: "https://example.com"}}},
			{Key: "result", Value: bson.D{{Key: "verdict", Value: "Satire"}}},
			{Key: "created_at", Value: created},
		})
		done := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, done)

		records, err := s.List(context.Background(), 10, 0)

		require.NoError(mt, err)
		require.Len(mt, records, 1)
		assert.Equal(mt, oid.Hex(), records[0].ID)
		assert.Equal(mt, model.KindURL, records[0].InputType)
		assert.Equal(mt, "https://example.com", records[0].Payload["url"])
		assert.Equal(mt, "Satire", records[0].Result["verdict"])
		assert.True(mt, records[0].CreatedAt.Equal(created))
	})
}

func TestDatabaseFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017", ""},
		{"mongodb://localhost:27017/", ""},
		{"mongodb://user:pw@localhost:27017/aletheia?authSource=admin", "aletheia"},
		{"mongodb+srv://cluster0.example.net/records", "records"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, databaseFromURI(tt.uri))
		})
	}
}
