// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSiteName is used when no configuration overrides it.
const DefaultSiteName = "Get Me A Chai"

// User is a creator account. Every creator is the merchant of record for
// their own page: donations are charged against the creator's own Stripe
// secret key, not a platform key.
//
// Name doubles as the public page handle (/{name}); NameCI is the
// case-folded copy backing the uniqueness index. StripeSecretKey is stored
// sealed (see system/secrets) and must be opened before use.
type User struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Name   string             `bson:"name"`
	NameCI string             `bson:"name_ci"`
	Email  string             `bson:"email"`

	ProfilePic string `bson:"profilepic,omitempty"`
	CoverPic   string `bson:"coverpic,omitempty"`

	StripeID             string `bson:"stripeId,omitempty"`        // Stripe customer id
	StripeSecretKey      string `bson:"stripeSecretKey,omitempty"` // sealed at rest
	StripePublishableKey string `bson:"stripePublishableKey,omitempty"`
	StripeAccountID      string `bson:"stripeAccountId,omitempty"` // connected account for split transfers

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// HasStripeCredentials reports whether the creator can accept donations.
func (u *User) HasStripeCredentials() bool {
	return u.StripeSecretKey != ""
}
