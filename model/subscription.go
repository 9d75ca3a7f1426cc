package model

import "time"

// PushSubscription holds one browser push endpoint for reminder delivery.
// Timezone is the subscriber's IANA zone name; the reminder job uses it to
// resolve the subscriber's local "today" and local hour.
type PushSubscription struct {
	SubscriptionID string    `bson:"_id" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	Endpoint       string    `bson:"endpoint" json:"endpoint"`
	P256DH         string    `bson:"p256dh" json:"p256dh"`
	Auth           string    `bson:"auth" json:"auth"`
	Timezone       string    `bson:"timezone" json:"timezone"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
