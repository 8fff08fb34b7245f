package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
)

// ConversationRepository implements storage.ConversationRepository for BadgerDB.
type ConversationRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(backend *Backend) (*ConversationRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	seq, err := backend.GetSequence(turnIDSeq)
	if err != nil {
		return nil, err
	}
	return &ConversationRepository{backend: backend, seq: seq}, nil
}

// Close releases the turn sequence.
func (r *ConversationRepository) Close() error {
	return r.seq.Release()
}

// WithTransaction delegates to the backend.
func (r *ConversationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendTurn appends a turn to its conversation. The key carries a
// monotonic sequence number, so turns read back in append order.
func (r *ConversationRepository) AppendTurn(ctx context.Context, turn *core.ConversationTurn) error {
	if err := core.ValidateTurn(turn); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	seq, err := r.seq.Next()
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTurnKey(turn.Tenant, turn.ConversationId, seq)
		if err := tx.Set(key, storage.MarshalTurn(turn)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// RecentTurns retrieves up to limit most recent turns of a conversation in
// chronological order.
func (r *ConversationRepository) RecentTurns(ctx context.Context, tenant core.TenantID, conversationID core.ID, limit int) ([]*core.ConversationTurn, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var turns []*core.ConversationTurn
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTurnConversationPrefix(tenant, conversationID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var turn *core.ConversationTurn
			err := iter.Item().Value(func(val []byte) error {
				var err error
				turn, err = storage.UnmarshalTurn(val)
				return err
			})
			if err != nil {
				return err
			}
			turns = append(turns, turn)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}
