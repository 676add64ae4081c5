package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	paymentstore "github.com/getmeachai/getmeachai/internal/app/store/payments"
	"github.com/getmeachai/getmeachai/internal/app/system/normalize"
	"github.com/getmeachai/getmeachai/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrUsernameTaken is returned when a profile update asks for a page
	// handle another creator already holds.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	errMissingName  = errors.New("name is required")
	errMissingEmail = errors.New("email is required")
)

// Store provides access to the users collection. It also holds the payment
// store because a username rename must cascade into the denormalized
// to_user field on historical payments.
type Store struct {
	c        *mongo.Collection
	payments *paymentstore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("users"),
		payments: paymentstore.New(db),
	}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByName loads a creator by page handle. The match is exact, the same
// form that payments denormalize into to_user.
func (s *Store) GetByName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"name": normalize.Username(name)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// It is called on first sign-in with an email the identity provider has
// never sent us before.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Username(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)

	if u.Name == "" {
		return models.User{}, errMissingName
	}
	if u.Email == "" {
		return models.User{}, errMissingEmail
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// NameExists reports whether any creator already holds the given page
// handle (case-insensitive).
func (s *Store) NameExists(ctx context.Context, name string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"name_ci": text.Fold(normalize.Username(name))}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// ProfileUpdate is the allow-list of fields a creator may change from the
// dashboard. Nothing outside this struct ever reaches the user document,
// regardless of what the form posts.
type ProfileUpdate struct {
	Name                 string
	Email                string
	ProfilePic           string
	CoverPic             string
	StripeID             string
	StripeSecretKey      string // already sealed by the caller
	StripePublishableKey string
	StripeAccountID      string
}

// UpdateProfile applies a profile update for the creator currently named
// currentName. The user document is matched by email, which is the stable
// key under rename.
//
// If the update changes the page handle, the new handle is checked for
// availability first (ErrUsernameTaken), then the user document is updated,
// then every payment denormalizing the old handle is rewritten to the new
// one. The two writes are not a transaction: a ledger read between them
// can observe the old handle. On conflict nothing is written.
func (s *Store) UpdateProfile(ctx context.Context, upd ProfileUpdate, currentName string) error {
	upd.Name = normalize.Username(upd.Name)
	upd.Email = normalize.Email(upd.Email)
	currentName = normalize.Username(currentName)

	if upd.Name == "" {
		return errMissingName
	}
	if upd.Email == "" {
		return errMissingEmail
	}

	renamed := upd.Name != currentName
	if renamed {
		taken, err := s.NameExists(ctx, upd.Name)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}
	}

	set := bson.M{
		"name":                 upd.Name,
		"name_ci":              text.Fold(upd.Name),
		"email":                upd.Email,
		"profilepic":           normalize.URL(upd.ProfilePic),
		"coverpic":             normalize.URL(upd.CoverPic),
		"stripeId":             upd.StripeID,
		"stripeSecretKey":      upd.StripeSecretKey,
		"stripePublishableKey": upd.StripePublishableKey,
		"stripeAccountId":      upd.StripeAccountID,
		"updatedAt":            time.Now().UTC(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"email": upd.Email}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			// The unique index on name_ci backstops the availability
			// check under concurrent renames.
			return ErrUsernameTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	if renamed {
		if _, err := s.payments.RenameRecipient(ctx, currentName, upd.Name); err != nil {
			return err
		}
	}
	return nil
}
