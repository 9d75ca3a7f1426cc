package repository

import (
	"context"
	"os"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HabitsRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for habits
func GetHabitsRepo(client *mongo.Client) *HabitsRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("HABITS_COLLECTION", "habits")
	return &HabitsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// CountByUser returns the number of live habits the user owns. The habit
// cap is enforced against this count before any insert.
func (r *HabitsRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("count", "habits")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "habit_count_failed")
		return 0, err
	}
	return count, nil
}

func (r *HabitsRepo) CreateHabit(ctx context.Context, habit *model.Habit) error {
	timer := utils.TrackDBOperation("insert", "habits")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, habit); err != nil {
		utils.TrackError("database", "habit_creation_failed")
		return err
	}
	return nil
}

// GetUserHabits returns the user's habits sorted by position, the stable
// insertion order the clients render in.
func (r *HabitsRepo) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "habit_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var habits []*model.Habit
	if err = cursor.All(ctx, &habits); err != nil {
		utils.TrackError("database", "habit_decode_failed")
		return nil, err
	}
	return habits, nil
}

func (r *HabitsRepo) GetHabit(ctx context.Context, habitID, userID string) (*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	var habit model.Habit
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": habitID, "user_id": userID}).Decode(&habit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", "habit_fetch_failed")
		return nil, err
	}
	return &habit, nil
}

func (r *HabitsRepo) UpdateHabit(ctx context.Context, habitID, userID string, updates *model.Habit) error {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	update := bson.M{
		"$set": bson.M{
			"name":        updates.Name,
			"description": updates.Description,
			"color":       updates.Color,
			"icon":        updates.Icon,
			"updated_at":  time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "habit_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *HabitsRepo) DeleteHabit(ctx context.Context, habitID, userID string) error {
	timer := utils.TrackDBOperation("delete", "habits")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": habitID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "habit_delete_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
