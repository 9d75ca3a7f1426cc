package repository

import (
	"context"
	"os"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for notes
func GetNotesRepo(client *mongo.Client) *NotesRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("NOTES_COLLECTION", "notes")
	return &NotesRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *NotesRepo) InsertNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, note)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrDuplicateEntry
		}
		utils.TrackError("database", "note_insert_failed")
		return err
	}
	return nil
}

// GetByEntry returns the entry's note or model.ErrNotFound. An entry holds
// at most one note.
func (r *NotesRepo) GetByEntry(ctx context.Context, entryID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"entry_id": entryID}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrNotFound
		}
		utils.TrackError("database", "note_fetch_failed")
		return nil, err
	}
	return &note, nil
}

func (r *NotesRepo) DeleteNote(ctx context.Context, noteID, userID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": noteID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "note_delete_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

// FindByEntries returns all notes attached to the given entries. Used by
// the delete cascades to locate media objects before the rows go away.
func (r *NotesRepo) FindByEntries(ctx context.Context, entryIDs []string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	if len(entryIDs) == 0 {
		return nil, nil
	}

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"entry_id": bson.M{"$in": entryIDs}})
	if err != nil {
		utils.TrackError("database", "note_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []*model.Note
	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "note_decode_failed")
		return nil, err
	}
	return notes, nil
}

// DeleteByEntries removes every note attached to the given entries.
func (r *NotesRepo) DeleteByEntries(ctx context.Context, entryIDs []string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	if len(entryIDs) == 0 {
		return nil
	}

	_, err := r.MongoCollection.DeleteMany(ctx, bson.M{"entry_id": bson.M{"$in": entryIDs}})
	if err != nil {
		utils.TrackError("database", "note_cascade_failed")
		return err
	}
	return nil
}
