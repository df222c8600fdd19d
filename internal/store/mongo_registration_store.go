package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/enrollhq/registration-api/internal/models"
)

const registrationsCollection = "registrations"

// MongoRegistrationStore persists full-form registrations as one document
// per record. The client's connection pool is shared process-wide and
// established lazily on the first operation.
type MongoRegistrationStore struct {
	col *mongo.Collection
}

// NewMongoRegistrationStore constructs a MongoRegistrationStore.
func NewMongoRegistrationStore(client *mongo.Client, database string) *MongoRegistrationStore {
	return &MongoRegistrationStore{col: client.Database(database).Collection(registrationsCollection)}
}

type registrationDoc struct {
	OID                 primitive.ObjectID `bson:"_id,omitempty"`
	models.Registration `bson:",inline"`
}

// Insert stores a new record and assigns its id.
func (s *MongoRegistrationStore) Insert(ctx context.Context, rec *models.Registration) error {
	res, err := s.col.InsertOne(ctx, registrationDoc{Registration: *rec})
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert registration: unexpected id type %T", res.InsertedID)
	}
	rec.ID = oid.Hex()
	return nil
}

// FindAll returns every record, newest first.
func (s *MongoRegistrationStore) FindAll(ctx context.Context) ([]models.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find registrations: %w", err)
	}
	var docs []registrationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}
	recs := make([]models.Registration, 0, len(docs))
	for _, doc := range docs {
		rec := doc.Registration
		rec.ID = doc.OID.Hex()
		recs = append(recs, rec)
	}
	return recs, nil
}

// FindByID fetches a record by its hex id. Malformed ids are reported as
// not found, not as errors.
func (s *MongoRegistrationStore) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc registrationDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registration %s: %w", id, err)
	}
	rec := doc.Registration
	rec.ID = doc.OID.Hex()
	return &rec, nil
}

// UpdateStatus sets the review status and refreshes updatedAt, reporting
// whether a record was modified.
func (s *MongoRegistrationStore) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus, updatedAt time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": updatedAt,
	}})
	if err != nil {
		return false, fmt.Errorf("update registration %s: %w", id, err)
	}
	return res.ModifiedCount > 0, nil
}

// Delete removes a record, reporting whether one existed.
func (s *MongoRegistrationStore) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete registration %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// Stats counts records per review status.
func (s *MongoRegistrationStore) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	total, err := s.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	stats := &models.RegistrationStats{Total: int(total)}
	for _, status := range []models.RegistrationStatus{models.StatusPending, models.StatusApproved, models.StatusRejected} {
		n, err := s.col.CountDocuments(ctx, bson.M{"status": status})
		if err != nil {
			return nil, fmt.Errorf("count %s registrations: %w", status, err)
		}
		switch status {
		case models.StatusPending:
			stats.Pending = int(n)
		case models.StatusApproved:
			stats.Approved = int(n)
		case models.StatusRejected:
			stats.Rejected = int(n)
		}
	}
	return stats, nil
}
