// Package envelope stores and retrieves raw loan-application envelopes —
// spec.md's "event envelope parsing" collaborator, scoped out of the core
// engine. This package is deliberately a thin store, not a parser: the
// envelope payload is handed to the engine as-is as a projection.Document.
package envelope

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openlend/reportengine/internal/common"
	"github.com/openlend/reportengine/internal/config"
	"github.com/openlend/reportengine/internal/projection"
)

// Store holds raw loan-application envelopes in the `envelopes` collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// envelopeDocument mirrors one document of the `envelopes` collection.
// Payload is stored as bson.D, not bson.M, because the engine requires
// stable field insertion order (see projection.OrderedMap) and bson.M's
// backing Go map does not preserve it.
type envelopeDocument struct {
	ID         string    `bson:"_id"`
	ReceivedAt time.Time `bson:"receivedAt"`
	Payload    bson.D    `bson:"payload"`
}

// Open connects to MongoDB per the loaded config and returns a ready-to-use
// Store.
func Open(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("envelope: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("envelope: ping: %w", err)
	}

	collection := client.Database(cfg.Database).Collection("envelopes")
	return &Store{client: client, collection: collection}, nil
}

// Close disconnects the underlying Mongo client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Put stores payload under envelopeID, stamping it with the current time.
func (s *Store) Put(ctx context.Context, envelopeID string, payload projection.Document) error {
	raw, err := payload.MarshalJSON()
	if err != nil {
		return fmt.Errorf("envelope: marshal payload: %w", err)
	}
	var bsonPayload bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &bsonPayload); err != nil {
		return fmt.Errorf("envelope: bson-encode payload: %w", err)
	}

	doc := envelopeDocument{
		ID:         envelopeID,
		ReceivedAt: time.Now().UTC(),
		Payload:    bsonPayload,
	}

	_, err = s.collection.ReplaceOne(ctx,
		bson.M{"_id": envelopeID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("envelope: put: %w", err)
	}
	return nil
}

// Get retrieves the envelope at envelopeID and decodes its payload into a
// projection.Document, preserving field insertion order the way the engine
// requires.
func (s *Store) Get(ctx context.Context, envelopeID string) (projection.Document, error) {
	var doc envelopeDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": envelopeID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return projection.Document{}, common.NewErrNotFound("envelope " + envelopeID)
	}
	if err != nil {
		return projection.Document{}, fmt.Errorf("envelope: get: %w", err)
	}

	payloadJSON, err := bson.MarshalExtJSON(doc.Payload, false, false)
	if err != nil {
		return projection.Document{}, fmt.Errorf("envelope: json-encode payload: %w", err)
	}
	return projection.DecodeJSON(payloadJSON)
}
