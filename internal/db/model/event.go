package model

import (
	"encoding/json"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventDocument is the persisted form of an emitted event. Data keeps the
// exact json that was published.
type EventDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Standard  string             `bson:"standard"`
	Version   string             `bson:"version"`
	Event     string             `bson:"event"`
	Data      string             `bson:"data"`
	CreatedAt time.Time          `bson:"created_at"`
}

func NewEventDocument(ev *types.Event, createdAt time.Time) (*EventDocument, error) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, err
	}
	return &EventDocument{
		ID:        primitive.NewObjectID(),
		Standard:  ev.Standard,
		Version:   ev.Version,
		Event:     ev.Event.String(),
		Data:      string(data),
		CreatedAt: createdAt,
	}, nil
}
