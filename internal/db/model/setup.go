package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type index struct {
	Keys   bson.D
	Unique bool
}

var collections = map[string][]index{
	ScoresCollection:      nil,
	RankingCollection:     nil,
	StakesCollection:      {{Keys: bson.D{{Key: "token_id", Value: 1}}, Unique: true}},
	TotalsCollection:      nil,
	OperatorCollection:    nil,
	WhitelistCollection:   nil,
	EventsCollection:      {{Keys: bson.D{{Key: "event", Value: 1}, {Key: "created_at", Value: -1}}}},
	CheckpointsCollection: nil,
	FarmConfigsCollection: nil,
	ClaimsCollection: {
		{Keys: bson.D{{Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}}},
	},
}

// Setup creates every collection with its indexes. Collections must exist
// before they can be written inside a transaction.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to disconnect setup client")
		}
	}()

	database := client.Database(cfg.DbName)

	// Create a context with timeout
	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for name, idxs := range collections {
		createCollection(setupCtx, database, name)
		for _, idx := range idxs {
			if err := createIndex(setupCtx, database, name, idx); err != nil {
				return err
			}
		}
	}

	log.Ctx(ctx).Info().Msg("Collections and Indexes created successfully.")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) {
	if err := database.CreateCollection(ctx, collectionName); err != nil {
		log.Ctx(ctx).Debug().Msg(fmt.Sprintf("Failed to create collection: %s. Probably already exists. err: %s", collectionName, err))
		return
	}

	log.Ctx(ctx).Debug().Msg(fmt.Sprintf("Collection created successfully: %s", collectionName))
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	indexModel := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create index on collection '%s': %w", collectionName, err)
	}

	log.Ctx(ctx).Debug().Msg(fmt.Sprintf("Index created successfully on collection: %s", collectionName))
	return nil
}
