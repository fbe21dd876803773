// Package ledger is the append-only backup transaction chain of every statechain coin. Entries are
// numbered 1..N per statechain id; nothing is ever reordered, replaced or removed.
package ledger

import (
	"context"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/ulogger"
)

// Store is the part of the wallet store the ledger writes through.
type Store interface {
	GetBackupTxs(ctx context.Context, statechainID string) ([]model.BackupTx, error)
	AppendBackupTx(ctx context.Context, statechainID string, tx model.BackupTx) error
}

type Ledger struct {
	logger ulogger.Logger
	store  Store
}

func New(logger ulogger.Logger, store Store) *Ledger {
	return &Ledger{
		logger: logger,
		store:  store,
	}
}

// Load returns the entries of the statechain ordered by tx_n, or an empty slice when there are none.
func (l *Ledger) Load(ctx context.Context, statechainID string) ([]model.BackupTx, error) {
	entries, err := l.store.GetBackupTxs(ctx, statechainID)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []model.BackupTx{}
	}

	return entries, nil
}

// Latest returns the entry with the highest tx_n, or nil for an empty chain.
func (l *Ledger) Latest(ctx context.Context, statechainID string) (*model.BackupTx, error) {
	entries, err := l.Load(ctx, statechainID)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	latest := entries[len(entries)-1]

	return &latest, nil
}

// Append numbers entry as the next step of the chain and stores it.
//
// With requireHistory an empty chain is an EmptyHistoryError. An entry that already carries a TxN
// other than the next one is an InvalidSequenceError, as is losing a race against a concurrent
// writer for the same tx_n. The stored entry is returned.
func (l *Ledger) Append(ctx context.Context, statechainID string, entry model.BackupTx, requireHistory bool) (model.BackupTx, error) {
	existing, err := l.Load(ctx, statechainID)
	if err != nil {
		return model.BackupTx{}, err
	}

	if requireHistory && len(existing) == 0 {
		return model.BackupTx{}, errors.NewEmptyHistoryError("statechain %s has no backup transactions", statechainID)
	}

	count, err := safeconversion.IntToUint32(len(existing))
	if err != nil {
		return model.BackupTx{}, errors.NewInvalidSequenceError("statechain %s has too many backup transactions", statechainID, err)
	}

	next := count + 1

	if entry.TxN != 0 && entry.TxN != next {
		return model.BackupTx{}, errors.NewInvalidSequenceError("backup tx %d for statechain %s, expected %d", entry.TxN, statechainID, next)
	}

	entry.TxN = next

	if err = l.store.AppendBackupTx(ctx, statechainID, entry); err != nil {
		return model.BackupTx{}, err
	}

	l.logger.Debugf("[Ledger] appended backup tx %d to statechain %s", entry.TxN, statechainID)

	return entry, nil
}

// Verify checks that the chain is numbered 1..N, that every entry decodes as a transaction and that
// every entry spends the outpoint the first entry spends.
func (l *Ledger) Verify(ctx context.Context, statechainID string) error {
	entries, err := l.Load(ctx, statechainID)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return errors.NewEmptyHistoryError("statechain %s has no backup transactions", statechainID)
	}

	for i, entry := range entries {
		n, err := safeconversion.IntToUint32(i + 1)
		if err != nil {
			return errors.NewInvalidSequenceError("statechain %s has too many backup transactions", statechainID, err)
		}

		if entry.TxN != n {
			return errors.NewInvalidSequenceError("statechain %s: entry %d has tx_n %d", statechainID, i+1, entry.TxN)
		}
	}

	tx0, err := Tx0Outpoint(entries)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		msgTx, err := DecodeTx(entry.Tx)
		if err != nil {
			return errors.NewTxInvalidError("statechain %s: backup tx %d", statechainID, entry.TxN, err)
		}

		if len(msgTx.TxIn) == 0 || msgTx.TxIn[0].PreviousOutPoint != tx0 {
			return errors.NewTxInvalidError("statechain %s: backup tx %d does not spend %s", statechainID, entry.TxN, tx0.String())
		}
	}

	return nil
}
