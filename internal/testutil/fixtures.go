package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/getmeachai/getmeachai/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCreator inserts a user with the given page name and email.
// The user has no payment credentials; use CreateConfiguredCreator for a
// creator that can accept donations.
func (f *Fixtures) CreateCreator(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Email:      email,
		ProfilePic: "https://avatars.example.com/" + name + ".png",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("insert test creator: %v", err)
	}
	return user
}

// CreateConfiguredCreator inserts a user that has Stripe credentials stored,
// with the secret key already in sealed form.
func (f *Fixtures) CreateConfiguredCreator(ctx context.Context, name, email, sealedSecretKey, publishableKey string) models.User {
	f.t.Helper()

	user := f.CreateCreator(ctx, name, email)
	user.StripeSecretKey = sealedSecretKey
	user.StripePublishableKey = publishableKey

	_, err := f.db.Collection("users").ReplaceOne(ctx, primitiveIDFilter(user.ID), user)
	if err != nil {
		f.t.Fatalf("store creator credentials: %v", err)
	}
	return user
}

// CreatePayment inserts a recorded payment toward the named recipient.
// Amount is in major units, matching how payments are stored.
func (f *Fixtures) CreatePayment(ctx context.Context, oid, toUser, name, message string, amount float64) models.Payment {
	f.t.Helper()

	now := time.Now().UTC()
	payment := models.Payment{
		ID:        primitive.NewObjectID(),
		OID:       oid,
		ToUser:    toUser,
		Name:      name,
		Message:   message,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("payments").InsertOne(ctx, payment); err != nil {
		f.t.Fatalf("insert test payment: %v", err)
	}
	return payment
}

func primitiveIDFilter(id primitive.ObjectID) map[string]any {
	return map[string]any{"_id": id}
}
