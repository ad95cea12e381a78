package model

type OperatorDocument struct {
	ID       string `bson:"_id"`
	Operator string `bson:"operator"`
}

type WhitelistDocument struct {
	AccountID string `bson:"_id"`
}
