package db

import (
	"context"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) SaveEvent(ctx context.Context, event *model.EventDocument) error {
	_, err := db.collection(model.EventsCollection).InsertOne(ctx, event)
	return err
}

func (db *Database) GetLatestEvents(ctx context.Context, limit int) ([]model.EventDocument, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := db.collection(model.EventsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []model.EventDocument
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
