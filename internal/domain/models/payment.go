// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is one supporter donation on a creator's page.
//
// OID is the Stripe payment-intent id; the record is written when the
// intent is created, before card confirmation, so Done stays false until
// the provider webhook reports payment_intent.succeeded.
//
// ToUser denormalizes the recipient User.Name at donation time. A
// username rename cascades into this field (see userstore.UpdateProfile);
// between the user write and the cascade write a reader can observe the
// old name.
//
// Amount is in major currency units (rupees). The Stripe intent is created
// in minor units (paise), divided by 100 on the way in.
type Payment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	OID     string             `bson:"oid"`
	ToUser  string             `bson:"to_user"`
	Name    string             `bson:"name"`
	Message string             `bson:"message"`
	Amount  float64            `bson:"amount"`
	Done    bool               `bson:"done"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
