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

func (db *Database) GetOperator(ctx context.Context) (types.AccountID, error) {
	var doc model.OperatorDocument
	err := db.collection(model.OperatorCollection).
		FindOne(ctx, bson.M{"_id": model.SingletonID}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", &NotFoundError{
				Key:     model.SingletonID,
				Message: "operator not set",
			}
		}
		return "", err
	}

	return types.AccountID(doc.Operator), nil
}

func (db *Database) SetOperator(ctx context.Context, operator types.AccountID) error {
	doc := model.OperatorDocument{ID: model.SingletonID, Operator: operator.String()}
	_, err := db.collection(model.OperatorCollection).
		ReplaceOne(ctx, bson.M{"_id": model.SingletonID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (db *Database) IsWhitelisted(ctx context.Context, account types.AccountID) (bool, error) {
	count, err := db.collection(model.WhitelistCollection).
		CountDocuments(ctx, bson.M{"_id": account.String()})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddToWhitelist is idempotent.
func (db *Database) AddToWhitelist(ctx context.Context, account types.AccountID) error {
	filter := bson.M{"_id": account.String()}
	update := bson.M{"$setOnInsert": model.WhitelistDocument{AccountID: account.String()}}

	_, err := db.collection(model.WhitelistCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (db *Database) RemoveFromWhitelist(ctx context.Context, account types.AccountID) error {
	res, err := db.collection(model.WhitelistCollection).
		DeleteOne(ctx, bson.M{"_id": account.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return &NotFoundError{
			Key:     account.String(),
			Message: "account is not whitelisted",
		}
	}
	return nil
}

func (db *Database) GetWhitelist(ctx context.Context) ([]types.AccountID, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := db.collection(model.WhitelistCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []model.WhitelistDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	accounts := make([]types.AccountID, len(docs))
	for i, doc := range docs {
		accounts[i] = types.AccountID(doc.AccountID)
	}
	return accounts, nil
}
