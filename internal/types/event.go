package types

import (
	"encoding/json"
	"fmt"

	"golang.org/x/mod/semver"
)

const (
	eventJSONPrefix = "EVENT_JSON:"

	RewarderStandard = "shitzurewarder"
	RewarderVersion  = "1.0.0"
	FtStandard       = "nep141"
	FtVersion        = "1.0.0"
)

type EventTypes string

func (e EventTypes) String() string {
	return string(e)
}

const (
	EventRewardSent    EventTypes = "reward_sent"
	EventScoreRecorded EventTypes = "score_recorded"
	EventNftStaked     EventTypes = "nft_staked"
	EventNftUnstaked   EventTypes = "nft_unstaked"
	EventFtMint        EventTypes = "ft_mint"
	EventFtBurn        EventTypes = "ft_burn"
)

// Event is a NEP-297 event envelope.
type Event struct {
	Standard string     `json:"standard"`
	Version  string     `json:"version"`
	Event    EventTypes `json:"event"`
	Data     any        `json:"data"`
}

type RewardSentData struct {
	AccountID AccountID `json:"account_id"`
	Amount    Amount    `json:"amount"`
	TokenID   *TokenID  `json:"token_id,omitempty"`
}

type ScoreRecordedData struct {
	TokenID TokenID `json:"token_id"`
	Score   Amount  `json:"score"`
}

type NftStakeData struct {
	AccountID AccountID `json:"account_id"`
	TokenID   TokenID   `json:"token_id"`
}

type FtMintData struct {
	OwnerID AccountID `json:"owner_id"`
	Amount  Amount    `json:"amount"`
}

type FtBurnData struct {
	OwnerID AccountID `json:"owner_id"`
	Amount  Amount    `json:"amount"`
}

func newRewarderEvent(event EventTypes, data any) *Event {
	return &Event{Standard: RewarderStandard, Version: RewarderVersion, Event: event, Data: data}
}

func NewRewardSentEvent(account AccountID, amount Amount, token *TokenID) *Event {
	return newRewarderEvent(EventRewardSent, RewardSentData{AccountID: account, Amount: amount, TokenID: token})
}

func NewScoreRecordedEvent(token TokenID, score Amount) *Event {
	return newRewarderEvent(EventScoreRecorded, ScoreRecordedData{TokenID: token, Score: score})
}

func NewNftStakedEvent(account AccountID, token TokenID) *Event {
	return newRewarderEvent(EventNftStaked, NftStakeData{AccountID: account, TokenID: token})
}

func NewNftUnstakedEvent(account AccountID, token TokenID) *Event {
	return newRewarderEvent(EventNftUnstaked, NftStakeData{AccountID: account, TokenID: token})
}

// Mint and burn are emitted as a list, as NEP-141 requires.
func NewFtMintEvent(owner AccountID, amount Amount) *Event {
	return &Event{Standard: FtStandard, Version: FtVersion, Event: EventFtMint, Data: []FtMintData{{OwnerID: owner, Amount: amount}}}
}

func NewFtBurnEvent(owner AccountID, amount Amount) *Event {
	return &Event{Standard: FtStandard, Version: FtVersion, Event: EventFtBurn, Data: []FtBurnData{{OwnerID: owner, Amount: amount}}}
}

func (e *Event) Validate() error {
	if e.Standard == "" {
		return fmt.Errorf("event %s has no standard", e.Event)
	}
	if !semver.IsValid("v" + e.Version) {
		return fmt.Errorf("event %s has invalid version %q", e.Event, e.Version)
	}
	return nil
}

// RoutingKey is used when publishing the event to the queue.
func (e *Event) RoutingKey() string {
	return e.Standard + "." + e.Event.String()
}

func (e *Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// String renders the event as a log line.
func (e *Event) String() string {
	bz, err := e.JSON()
	if err != nil {
		return eventJSONPrefix + "{}"
	}
	return eventJSONPrefix + string(bz)
}
