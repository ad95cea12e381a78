package memory

import (
	"context"
	"fmt"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

func (s *Store) GetStakedToken(ctx context.Context, account types.AccountID) (types.TokenID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenID, ok := s.stakesByAccount[account]
	if !ok {
		return "", &db.NotFoundError{
			Key:     account.String(),
			Message: "account has no staked position",
		}
	}
	return tokenID, nil
}

func (s *Store) GetStaker(ctx context.Context, tokenID types.TokenID) (types.AccountID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.stakesByToken[tokenID]
	if !ok {
		return "", &db.NotFoundError{
			Key:     tokenID.String(),
			Message: "position is not staked",
		}
	}
	return account, nil
}

func (s *Store) SaveStake(ctx context.Context, account types.AccountID, tokenID types.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, accountBound := s.stakesByAccount[account]
	_, tokenBound := s.stakesByToken[tokenID]
	if accountBound || tokenBound {
		return &db.DuplicateKeyError{
			Key:     account.String(),
			Message: fmt.Sprintf("account %s or position %s is already staked", account, tokenID),
		}
	}

	s.stakesByAccount[account] = tokenID
	s.stakesByToken[tokenID] = account
	s.record(ctx, func() {
		delete(s.stakesByAccount, account)
		delete(s.stakesByToken, tokenID)
	})
	return nil
}

func (s *Store) DeleteStake(ctx context.Context, account types.AccountID, tokenID types.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bound, ok := s.stakesByAccount[account]; !ok || bound != tokenID {
		return &db.NotFoundError{
			Key:     account.String(),
			Message: fmt.Sprintf("stake of %s by %s not found", tokenID, account),
		}
	}

	delete(s.stakesByAccount, account)
	delete(s.stakesByToken, tokenID)
	s.record(ctx, func() {
		s.stakesByAccount[account] = tokenID
		s.stakesByToken[tokenID] = account
	})
	return nil
}
