package db

import (
	"context"
	"errors"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) GetFarmConfigs(ctx context.Context) (*types.FarmConfigs, error) {
	var doc model.FarmConfigsDocument
	err := db.collection(model.FarmConfigsCollection).
		FindOne(ctx, bson.M{"_id": model.SingletonID}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.SingletonID,
				Message: "farm configs not found",
			}
		}
		return nil, err
	}

	return doc.ToFarmConfigs()
}

// SaveFarmConfigs replaces all three configs in one write.
func (db *Database) SaveFarmConfigs(ctx context.Context, configs *types.FarmConfigs) error {
	doc := model.NewFarmConfigsDocument(configs)
	_, err := db.collection(model.FarmConfigsCollection).
		ReplaceOne(ctx, bson.M{"_id": model.SingletonID}, doc, options.Replace().SetUpsert(true))
	return err
}
