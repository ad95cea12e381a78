package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) GetScore(ctx context.Context, tokenID types.TokenID) (types.Amount, error) {
	var doc model.ScoreDocument
	err := db.collection(model.ScoresCollection).
		FindOne(ctx, bson.M{"_id": tokenID.String()}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.ZeroAmount(), nil
	}
	if err != nil {
		return types.Amount{}, err
	}

	return types.ParseSortKey(doc.Score)
}

func (db *Database) SetScore(ctx context.Context, tokenID types.TokenID, score types.Amount) error {
	filter := bson.M{"_id": tokenID.String()}
	update := bson.M{"$set": bson.M{"score": score.SortKey()}}

	_, err := db.collection(model.ScoresCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (db *Database) RemoveFromRanking(ctx context.Context, score types.Amount, tokenID types.TokenID) error {
	collection := db.collection(model.RankingCollection)
	filter := bson.M{"_id": score.SortKey()}

	res, err := collection.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"token_ids": tokenID.String()}})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return &NotFoundError{
			Key:     score.SortKey(),
			Message: fmt.Sprintf("position %s not found in ranking bucket %s", tokenID, score),
		}
	}

	// buckets never stay empty
	_, err = collection.DeleteOne(ctx, bson.M{"_id": score.SortKey(), "token_ids": bson.M{"$size": 0}})
	return err
}

func (db *Database) AppendToRanking(ctx context.Context, score types.Amount, tokenID types.TokenID) error {
	filter := bson.M{"_id": score.SortKey()}
	update := bson.M{"$push": bson.M{"token_ids": tokenID.String()}}

	_, err := db.collection(model.RankingCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (db *Database) TopRanking(ctx context.Context, limit int) ([]model.RankingBucket, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := db.collection(model.RankingCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []model.RankingBucketDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	buckets := make([]model.RankingBucket, 0, len(docs))
	for _, doc := range docs {
		bucket, err := doc.ToBucket()
		if err != nil {
			return nil, fmt.Errorf("invalid ranking bucket %s: %w", doc.ScoreKey, err)
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}
