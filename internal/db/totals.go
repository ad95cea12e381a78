package db

import (
	"context"
	"errors"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) GetTotals(ctx context.Context) (*model.Totals, error) {
	var doc model.TotalsDocument
	err := db.collection(model.TotalsCollection).
		FindOne(ctx, bson.M{"_id": model.SingletonID}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.NewTotals(), nil
	}
	if err != nil {
		return nil, err
	}

	return doc.ToTotals()
}

func (db *Database) SaveTotals(ctx context.Context, totals *model.Totals) error {
	doc := model.NewTotalsDocument(totals)
	filter := bson.M{"_id": model.SingletonID}

	_, err := db.collection(model.TotalsCollection).
		ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	return err
}
