// Package eventstore adapts Event records to the MongoDB events collection.
// Transport failures surface as wrapped errors with no retry.
package eventstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/testgcahm/gis/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("event not found")
	ErrDuplicateSlug = errors.New("an event with this slug already exists")
)

type Store struct {
	col *mongo.Collection
}

func New(col *mongo.Collection) *Store {
	return &Store{col: col}
}

// ListAll returns every event document with its store-assigned id. Callers
// sort by order; the adapter imposes no ordering of its own.
func (s *Store) ListAll(ctx context.Context) ([]models.Event, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// GetBySlug returns the event with the given slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	err := s.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event %q: %w", slug, err)
	}
	return &event, nil
}

// Slugs returns every non-empty event slug, for the sitemap.
func (s *Store) Slugs(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"slug": 1})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list slugs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Slug string `bson:"slug"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode slugs: %w", err)
	}
	slugs := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Slug != "" {
			slugs = append(slugs, d.Slug)
		}
	}
	return slugs, nil
}

// Create inserts a new event at display position 0 after shifting every
// existing event down by one. The slug uniqueness check runs server-side
// against the collection, not a client-cached list. Returns the assigned id.
func (s *Store) Create(ctx context.Context, event *models.Event) (string, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"slug": event.Slug})
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", event.Slug, err)
	}
	if n > 0 {
		return "", ErrDuplicateSlug
	}

	if _, err := s.col.UpdateMany(ctx, bson.M{}, bson.M{"$inc": bson.M{"order": 1}}); err != nil {
		return "", fmt.Errorf("shift orders: %w", err)
	}

	event.ID = primitive.NilObjectID
	event.Order = 0
	res, err := s.col.InsertOne(ctx, event)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert event: unexpected id type %T", res.InsertedID)
	}
	event.ID = oid
	return oid.Hex(), nil
}

// Update replaces only the supplied fields on an existing event.
func (s *Store) Update(ctx context.Context, id string, fields map[string]any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.UpdateByID(ctx, oid, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOrder rewrites the order field of every listed event in one batch.
// The bulk write is ordered and surfaces a single error for the whole batch.
func (s *Store) UpdateOrder(ctx context.Context, pairs []models.OrderPair) error {
	if len(pairs) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(pairs))
	for _, p := range pairs {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return fmt.Errorf("reorder: bad id %q", p.ID)
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid}).
			SetUpdate(bson.M{"$set": bson.M{"order": p.Order}}))
	}
	if _, err := s.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("reorder events: %w", err)
	}
	return nil
}

// Delete removes an event. Deletion is immediate and irreversible.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
