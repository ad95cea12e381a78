package model

const (
	ScoresCollection      = "scores"
	RankingCollection     = "ranking"
	StakesCollection      = "stakes"
	TotalsCollection      = "totals"
	OperatorCollection    = "operator"
	WhitelistCollection   = "whitelist"
	EventsCollection      = "events"
	CheckpointsCollection = "checkpoints"
	FarmConfigsCollection = "farm_configs"
	ClaimsCollection      = "claims"

	// SingletonID is the _id of collections holding a single document.
	SingletonID = "singleton"
)
