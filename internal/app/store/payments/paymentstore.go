package paymentstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/getmeachai/getmeachai/internal/app/system/normalize"
	"github.com/getmeachai/getmeachai/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateIntent is returned when a payment record already exists
	// for the same payment-intent id.
	ErrDuplicateIntent = errors.New("a payment with this intent id already exists")

	errMissingIntentID = errors.New("payment intent id is required")
	errMissingFields   = errors.New("recipient, donor name and message are required")
	errBadAmount       = errors.New("amount must be positive")
)

// Store provides access to the payments collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("payments")}
}

// Create inserts a new payment record after normalizing & validating fields.
// The record starts with Done=false; confirmation arrives later via the
// provider webhook.
func (s *Store) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	p.ID = primitive.NewObjectID()
	p.ToUser = normalize.Username(p.ToUser)
	p.Name = normalize.Name(p.Name)
	p.Message = normalize.Message(p.Message)

	if p.OID == "" {
		return models.Payment{}, errMissingIntentID
	}
	if p.ToUser == "" || p.Name == "" || p.Message == "" {
		return models.Payment{}, errMissingFields
	}
	if p.Amount <= 0 {
		return models.Payment{}, errBadAmount
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Payment{}, ErrDuplicateIntent
		}
		return models.Payment{}, err
	}
	return p, nil
}

// ListByRecipient returns all payments made to one creator, newest first.
// The full ledger is materialized on every call; there is no pagination
// and no caching.
func (s *Store) ListByRecipient(ctx context.Context, name string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"to_user": name}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var payments []models.Payment
	if err := cur.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// CountByRecipient returns how many payments a creator has received.
func (s *Store) CountByRecipient(ctx context.Context, name string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"to_user": name})
}

// RenameRecipient rewrites the denormalized to_user field after a creator
// changes their page handle. Returns the number of records updated.
//
// This is the second half of the two-step rename; a concurrent ledger read
// between the user write and this write can still observe the old name.
func (s *Store) RenameRecipient(ctx context.Context, oldName, newName string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"to_user": oldName},
		bson.M{"$set": bson.M{"to_user": newName, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkDone flags the payment for the given intent id as confirmed.
// Returns false if no record matches (an intent we never recorded).
func (s *Store) MarkDone(ctx context.Context, oid string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"oid": oid},
		bson.M{"$set": bson.M{"done": true, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
