package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (db *Database) GetStakedToken(ctx context.Context, account types.AccountID) (types.TokenID, error) {
	var doc model.StakeDocument
	err := db.collection(model.StakesCollection).
		FindOne(ctx, bson.M{"_id": account.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", &NotFoundError{
				Key:     account.String(),
				Message: "account has no staked position",
			}
		}
		return "", err
	}

	return types.TokenID(doc.TokenID), nil
}

func (db *Database) GetStaker(ctx context.Context, tokenID types.TokenID) (types.AccountID, error) {
	var doc model.StakeDocument
	err := db.collection(model.StakesCollection).
		FindOne(ctx, bson.M{"token_id": tokenID.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", &NotFoundError{
				Key:     tokenID.String(),
				Message: "position is not staked",
			}
		}
		return "", err
	}

	return types.AccountID(doc.AccountID), nil
}

func (db *Database) SaveStake(ctx context.Context, account types.AccountID, tokenID types.TokenID) error {
	doc := model.StakeDocument{
		AccountID: account.String(),
		TokenID:   tokenID.String(),
	}
	_, err := db.collection(model.StakesCollection).InsertOne(ctx, doc)
	if err != nil {
		if isDuplicateKey(err) {
			return &DuplicateKeyError{
				Key:     account.String(),
				Message: fmt.Sprintf("account %s or position %s is already staked", account, tokenID),
			}
		}
		return err
	}
	return nil
}

func (db *Database) DeleteStake(ctx context.Context, account types.AccountID, tokenID types.TokenID) error {
	filter := bson.M{"_id": account.String(), "token_id": tokenID.String()}
	res, err := db.collection(model.StakesCollection).DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return &NotFoundError{
			Key:     account.String(),
			Message: fmt.Sprintf("stake of %s by %s not found", tokenID, account),
		}
	}
	return nil
}
