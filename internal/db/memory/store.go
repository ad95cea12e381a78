package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

const btreeDegree = 32

var _ db.DbInterface = (*Store)(nil)

// Store keeps the whole ledger state in process memory. Writes made inside
// WithTransaction are journaled and undone if the transaction fails.
type Store struct {
	// txMu serializes transactions, mu guards the maps below
	txMu sync.Mutex
	mu   sync.Mutex

	scores          map[types.TokenID]types.Amount
	ranking         *btree.BTreeG[*bucket]
	stakesByAccount map[types.AccountID]types.TokenID
	stakesByToken   map[types.TokenID]types.AccountID
	totals          model.Totals
	operator        types.AccountID
	whitelist       map[types.AccountID]struct{}
	events          []model.EventDocument
	checkpoints     map[types.AccountID]time.Time
	farmConfigs     *types.FarmConfigs
	claims          map[string]model.ClaimDocument
}

type bucket struct {
	score  types.Amount
	tokens []types.TokenID
}

// buckets are ordered highest score first
func bucketLess(a, b *bucket) bool {
	return a.score.GT(b.score)
}

func New() *Store {
	return &Store{
		scores:          make(map[types.TokenID]types.Amount),
		ranking:         btree.NewG(btreeDegree, bucketLess),
		stakesByAccount: make(map[types.AccountID]types.TokenID),
		stakesByToken:   make(map[types.TokenID]types.AccountID),
		totals:          *model.NewTotals(),
		whitelist:       make(map[types.AccountID]struct{}),
		checkpoints:     make(map[types.AccountID]time.Time),
		claims:          make(map[string]model.ClaimDocument),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

type txKey struct{}

type journal struct {
	undo []func()
}

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*journal); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &journal{}
	err := fn(context.WithValue(ctx, txKey{}, j))
	if err != nil {
		s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		s.mu.Unlock()
	}
	return err
}

// record registers undo for the running transaction. Must be called with mu
// held.
func (s *Store) record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(txKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}
