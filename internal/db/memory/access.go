package memory

import (
	"context"
	"slices"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

func (s *Store) GetTotals(ctx context.Context) (*model.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := s.totals
	return &totals, nil
}

func (s *Store) SaveTotals(ctx context.Context, totals *model.Totals) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.totals
	s.totals = *totals
	s.record(ctx, func() { s.totals = prev })
	return nil
}

func (s *Store) GetOperator(ctx context.Context) (types.AccountID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.operator == "" {
		return "", &db.NotFoundError{
			Key:     model.SingletonID,
			Message: "operator not set",
		}
	}
	return s.operator, nil
}

func (s *Store) SetOperator(ctx context.Context, operator types.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.operator
	s.operator = operator
	s.record(ctx, func() { s.operator = prev })
	return nil
}

func (s *Store) IsWhitelisted(ctx context.Context, account types.AccountID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.whitelist[account]
	return ok, nil
}

func (s *Store) AddToWhitelist(ctx context.Context, account types.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.whitelist[account]; ok {
		return nil
	}
	s.whitelist[account] = struct{}{}
	s.record(ctx, func() { delete(s.whitelist, account) })
	return nil
}

func (s *Store) RemoveFromWhitelist(ctx context.Context, account types.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.whitelist[account]; !ok {
		return &db.NotFoundError{
			Key:     account.String(),
			Message: "account is not whitelisted",
		}
	}
	delete(s.whitelist, account)
	s.record(ctx, func() { s.whitelist[account] = struct{}{} })
	return nil
}

func (s *Store) GetWhitelist(ctx context.Context) ([]types.AccountID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]types.AccountID, 0, len(s.whitelist))
	for account := range s.whitelist {
		accounts = append(accounts, account)
	}
	slices.Sort(accounts)
	return accounts, nil
}

func (s *Store) SaveEvent(ctx context.Context, event *model.EventDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, *event)
	n := len(s.events)
	s.record(ctx, func() { s.events = s.events[:n-1] })
	return nil
}

func (s *Store) GetLatestEvents(ctx context.Context, limit int) ([]model.EventDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]model.EventDocument, 0, min(limit, len(s.events)))
	for i := len(s.events) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, s.events[i])
	}
	return events, nil
}
