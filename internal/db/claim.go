package db

import (
	"context"
	"errors"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (db *Database) SaveClaim(ctx context.Context, claim *model.ClaimDocument) error {
	_, err := db.collection(model.ClaimsCollection).InsertOne(ctx, claim)
	if err != nil {
		if isDuplicateKey(err) {
			return &DuplicateKeyError{
				Key:     claim.ID,
				Message: "claim already exists",
			}
		}
		return err
	}
	return nil
}

func (db *Database) UpdateClaim(ctx context.Context, claim *model.ClaimDocument) error {
	filter := bson.M{
		"_id":   claim.ID,
		"state": types.ClaimStatePending.String(),
	}
	res, err := db.collection(model.ClaimsCollection).ReplaceOne(ctx, filter, claim)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     claim.ID,
			Message: "claim not found or no longer pending",
		}
	}
	return nil
}

func (db *Database) GetClaim(ctx context.Context, id string) (*model.ClaimDocument, error) {
	var claim model.ClaimDocument
	err := db.collection(model.ClaimsCollection).
		FindOne(ctx, bson.M{"_id": id}).
		Decode(&claim)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     id,
				Message: "claim not found",
			}
		}
		return nil, err
	}
	return &claim, nil
}

func (db *Database) CountClaimsByState(ctx context.Context, state types.ClaimState) (int64, error) {
	return db.collection(model.ClaimsCollection).
		CountDocuments(ctx, bson.M{"state": state.String()})
}
