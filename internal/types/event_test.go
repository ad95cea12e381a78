package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	token := TokenID("42")
	cases := []struct {
		name     string
		event    *Event
		expected string
	}{
		{
			name:     "reward sent",
			event:    NewRewardSentEvent("alice.near", NewAmount(100), &token),
			expected: `{"standard":"shitzurewarder","version":"1.0.0","event":"reward_sent","data":{"account_id":"alice.near","amount":"100","token_id":"42"}}`,
		},
		{
			name:     "reward sent without position",
			event:    NewRewardSentEvent("alice.near", NewAmount(100), nil),
			expected: `{"standard":"shitzurewarder","version":"1.0.0","event":"reward_sent","data":{"account_id":"alice.near","amount":"100"}}`,
		},
		{
			name:     "score recorded",
			event:    NewScoreRecordedEvent(token, NewAmount(7)),
			expected: `{"standard":"shitzurewarder","version":"1.0.0","event":"score_recorded","data":{"token_id":"42","score":"7"}}`,
		},
		{
			name:     "ft mint",
			event:    NewFtMintEvent("alice.near", NewAmount(7)),
			expected: `{"standard":"nep141","version":"1.0.0","event":"ft_mint","data":[{"owner_id":"alice.near","amount":"7"}]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.event.Validate())
			bz, err := tc.event.JSON()
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(bz))
			assert.Equal(t, "EVENT_JSON:"+string(bz), tc.event.String())
		})
	}
}

func TestEventValidate(t *testing.T) {
	ev := NewNftStakedEvent("alice.near", "1")
	assert.Equal(t, "shitzurewarder.nft_staked", ev.RoutingKey())

	ev.Version = "one"
	require.Error(t, ev.Validate())
}

func TestAccountIDValidate(t *testing.T) {
	valid := []AccountID{"alice.near", "memeseason.shitzu.near", "a1", "bob_smith.testnet"}
	for _, id := range valid {
		assert.NoError(t, id.Validate(), id)
	}
	invalid := []AccountID{"", "a", "Alice.near", "alice..near", "-alice.near"}
	for _, id := range invalid {
		assert.Error(t, id.Validate(), id)
	}
}
