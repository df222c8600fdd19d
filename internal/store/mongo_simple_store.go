package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/enrollhq/registration-api/internal/models"
)

const simpleRegistrationsCollection = "simple_registrations"

// MongoSimpleRegistrationStore persists reduced-schema intake records.
type MongoSimpleRegistrationStore struct {
	col *mongo.Collection
}

// NewMongoSimpleRegistrationStore constructs a MongoSimpleRegistrationStore.
func NewMongoSimpleRegistrationStore(client *mongo.Client, database string) *MongoSimpleRegistrationStore {
	return &MongoSimpleRegistrationStore{col: client.Database(database).Collection(simpleRegistrationsCollection)}
}

type simpleRegistrationDoc struct {
	OID                       primitive.ObjectID `bson:"_id,omitempty"`
	models.SimpleRegistration `bson:",inline"`
}

// Insert stores a new record and assigns its id.
func (s *MongoSimpleRegistrationStore) Insert(ctx context.Context, rec *models.SimpleRegistration) error {
	res, err := s.col.InsertOne(ctx, simpleRegistrationDoc{SimpleRegistration: *rec})
	if err != nil {
		return fmt.Errorf("insert simple registration: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert simple registration: unexpected id type %T", res.InsertedID)
	}
	rec.ID = oid.Hex()
	return nil
}

// FindAll returns every record, newest first.
func (s *MongoSimpleRegistrationStore) FindAll(ctx context.Context) ([]models.SimpleRegistration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find simple registrations: %w", err)
	}
	var docs []simpleRegistrationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode simple registrations: %w", err)
	}
	recs := make([]models.SimpleRegistration, 0, len(docs))
	for _, doc := range docs {
		rec := doc.SimpleRegistration
		rec.ID = doc.OID.Hex()
		recs = append(recs, rec)
	}
	return recs, nil
}

// FindByEmail fetches the record registered under the given email, if any.
func (s *MongoSimpleRegistrationStore) FindByEmail(ctx context.Context, email string) (*models.SimpleRegistration, error) {
	var doc simpleRegistrationDoc
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find simple registration by email: %w", err)
	}
	rec := doc.SimpleRegistration
	rec.ID = doc.OID.Hex()
	return &rec, nil
}

// Count returns the number of stored records.
func (s *MongoSimpleRegistrationStore) Count(ctx context.Context) (int, error) {
	n, err := s.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count simple registrations: %w", err)
	}
	return int(n), nil
}
