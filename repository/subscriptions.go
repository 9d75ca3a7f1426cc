package repository

import (
	"context"
	"os"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubscriptionsRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for push subscriptions
func GetSubscriptionsRepo(client *mongo.Client) *SubscriptionsRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("SUBSCRIPTIONS_COLLECTION", "push_subscriptions")
	return &SubscriptionsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// Upsert stores the subscription keyed by endpoint. Re-subscribing from the
// same browser replaces the existing row instead of duplicating it.
func (r *SubscriptionsRepo) Upsert(ctx context.Context, sub *model.PushSubscription) error {
	timer := utils.TrackDBOperation("upsert", "push_subscriptions")
	defer timer.ObserveDuration()

	filter := bson.M{"endpoint": sub.Endpoint}
	update := bson.M{
		"$set": bson.M{
			"user_id":  sub.UserID,
			"endpoint": sub.Endpoint,
			"p256dh":   sub.P256DH,
			"auth":     sub.Auth,
			"timezone": sub.Timezone,
		},
		"$setOnInsert": bson.M{
			"_id":        sub.SubscriptionID,
			"created_at": sub.CreatedAt,
		},
	}

	_, err := r.MongoCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		utils.TrackError("database", "subscription_upsert_failed")
		return err
	}
	return nil
}

// GetAll returns every stored subscription. The reminder job filters them
// by local hour in memory; the table is small (one row per device).
func (r *SubscriptionsRepo) GetAll(ctx context.Context) ([]*model.PushSubscription, error) {
	timer := utils.TrackDBOperation("find", "push_subscriptions")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "subscription_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []*model.PushSubscription
	if err = cursor.All(ctx, &subs); err != nil {
		utils.TrackError("database", "subscription_decode_failed")
		return nil, err
	}
	return subs, nil
}

// DeleteByEndpoints removes stale subscriptions after delivery reported
// them gone.
func (r *SubscriptionsRepo) DeleteByEndpoints(ctx context.Context, endpoints []string) error {
	timer := utils.TrackDBOperation("delete", "push_subscriptions")
	defer timer.ObserveDuration()

	if len(endpoints) == 0 {
		return nil
	}

	_, err := r.MongoCollection.DeleteMany(ctx, bson.M{"endpoint": bson.M{"$in": endpoints}})
	if err != nil {
		utils.TrackError("database", "subscription_delete_failed")
		return err
	}
	return nil
}

// DeleteByUser removes all of a user's subscriptions (unsubscribe).
func (r *SubscriptionsRepo) DeleteByUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "push_subscriptions")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "subscription_delete_failed")
		return err
	}
	return nil
}
