package db

import (
	"context"
	"errors"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) GetCheckpoint(ctx context.Context, account types.AccountID) (time.Time, error) {
	var doc model.CheckpointDocument
	err := db.collection(model.CheckpointsCollection).
		FindOne(ctx, bson.M{"_id": account.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return time.Time{}, &NotFoundError{
				Key:     account.String(),
				Message: "checkpoint not found",
			}
		}
		return time.Time{}, err
	}

	return time.Unix(0, doc.Timestamp).UTC(), nil
}

func (db *Database) SetCheckpoint(ctx context.Context, account types.AccountID, at time.Time) error {
	doc := model.CheckpointDocument{AccountID: account.String(), Timestamp: at.UnixNano()}
	_, err := db.collection(model.CheckpointsCollection).
		ReplaceOne(ctx, bson.M{"_id": account.String()}, doc, options.Replace().SetUpsert(true))
	return err
}

func (db *Database) DeleteCheckpoint(ctx context.Context, account types.AccountID) error {
	_, err := db.collection(model.CheckpointsCollection).
		DeleteOne(ctx, bson.M{"_id": account.String()})
	return err
}
