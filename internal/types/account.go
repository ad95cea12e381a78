package types

import (
	"fmt"
	"regexp"
)

// AccountID identifies an actor: a user, the operator, or a collaborator
// contract.
type AccountID string

// TokenID identifies one NFT of the staked collection.
type TokenID string

func (a AccountID) String() string {
	return string(a)
}

func (t TokenID) String() string {
	return string(t)
}

var accountIDRegexp = regexp.MustCompile(`^(([a-z\d]+[-_])*[a-z\d]+\.)*([a-z\d]+[-_])*[a-z\d]+$`)

// Validate follows the NEAR account id rules.
func (a AccountID) Validate() error {
	if len(a) < 2 || len(a) > 64 {
		return fmt.Errorf("account id %q must be between 2 and 64 characters", string(a))
	}
	if !accountIDRegexp.MatchString(string(a)) {
		return fmt.Errorf("account id %q has invalid characters", string(a))
	}
	return nil
}

func (t TokenID) Validate() error {
	if t == "" {
		return fmt.Errorf("token id must not be empty")
	}
	return nil
}

// PrimaryPosition is the position an account currently has staked.
type PrimaryPosition struct {
	TokenID TokenID `json:"token_id"`
	Score   Amount  `json:"score"`
}
