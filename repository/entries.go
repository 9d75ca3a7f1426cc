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

type EntriesRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for completion entries
func GetEntriesRepo(client *mongo.Client) *EntriesRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("ENTRIES_COLLECTION", "entries")
	return &EntriesRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// GetEntries returns completion entries for the given habits within the
// inclusive date range, ascending by date.
func (r *EntriesRepo) GetEntries(ctx context.Context, userID string, habitIDs []string, startDate, endDate string) ([]*model.Entry, error) {
	timer := utils.TrackDBOperation("find", "entries")
	defer timer.ObserveDuration()

	if len(habitIDs) == 0 {
		return []*model.Entry{}, nil
	}

	filter := bson.M{
		"user_id":  userID,
		"habit_id": bson.M{"$in": habitIDs},
		"date":     bson.M{"$gte": startDate, "$lte": endDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "entry_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.Entry
	if err = cursor.All(ctx, &entries); err != nil {
		utils.TrackError("database", "entry_decode_failed")
		return nil, err
	}
	if entries == nil {
		entries = []*model.Entry{}
	}
	return entries, nil
}

// GetByUserAndDate returns all of a user's entries for a single day,
// regardless of habit. The reminder job uses this to find the completed set.
func (r *EntriesRepo) GetByUserAndDate(ctx context.Context, userID, date string) ([]*model.Entry, error) {
	timer := utils.TrackDBOperation("find", "entries")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID, "date": date})
	if err != nil {
		utils.TrackError("database", "entry_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.Entry
	if err = cursor.All(ctx, &entries); err != nil {
		utils.TrackError("database", "entry_decode_failed")
		return nil, err
	}
	return entries, nil
}

// FindByPair returns the entry for (habit, date) or model.ErrNotFound.
func (r *EntriesRepo) FindByPair(ctx context.Context, habitID, date string) (*model.Entry, error) {
	timer := utils.TrackDBOperation("find", "entries")
	defer timer.ObserveDuration()

	var entry model.Entry
	err := r.MongoCollection.FindOne(ctx, bson.M{"habit_id": habitID, "date": date}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", "entry_fetch_failed")
		return nil, err
	}
	return &entry, nil
}

// InsertEntry inserts the completion record. A duplicate for the same
// (habit, date) pair trips the unique index and is reported as
// model.ErrDuplicateEntry so callers can treat it as a benign conflict.
func (r *EntriesRepo) InsertEntry(ctx context.Context, entry *model.Entry) error {
	timer := utils.TrackDBOperation("insert", "entries")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrDuplicateEntry
		}
		utils.TrackError("database", "entry_insert_failed")
		return err
	}
	return nil
}

// DeleteByPair removes the entry for (habit, date). Missing entries report
// model.ErrNotFound; unmarking twice is not an error worth surfacing.
func (r *EntriesRepo) DeleteByPair(ctx context.Context, habitID, date string) error {
	timer := utils.TrackDBOperation("delete", "entries")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"habit_id": habitID, "date": date})
	if err != nil {
		utils.TrackError("database", "entry_delete_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteByHabit removes every entry for a habit. Part of the cascade when
// the habit itself is deleted. Returns the ids of the removed entries so
// their notes can be cascaded as well.
func (r *EntriesRepo) DeleteByHabit(ctx context.Context, habitID string) ([]string, error) {
	timer := utils.TrackDBOperation("delete", "entries")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"habit_id": habitID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		utils.TrackError("database", "entry_fetch_failed")
		return nil, err
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		utils.TrackError("database", "entry_decode_failed")
		return nil, err
	}

	entryIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		entryIDs = append(entryIDs, doc.ID)
	}

	if _, err = r.MongoCollection.DeleteMany(ctx, bson.M{"habit_id": habitID}); err != nil {
		utils.TrackError("database", "entry_cascade_failed")
		return nil, err
	}
	return entryIDs, nil
}
