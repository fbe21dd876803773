// Package activity is the append-only, per wallet history of user visible events.
package activity

import (
	"context"
	"iter"
	"time"

	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/ulogger"
)

const defaultPageSize = 100

// Store is the part of the wallet store the activity log reads and writes.
type Store interface {
	AppendActivity(ctx context.Context, walletName string, activity model.Activity) error
	GetActivities(ctx context.Context, walletName string, offset int, limit int) ([]model.Activity, error)
}

type Log struct {
	logger    ulogger.Logger
	store     Store
	publisher Publisher
	pageSize  int
}

type Option func(*Log)

// WithPageSize sets how many activities All reads per store round trip.
func WithPageSize(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.pageSize = n
		}
	}
}

func New(logger ulogger.Logger, store Store, publisher Publisher, opts ...Option) *Log {
	if publisher == nil {
		publisher = NullPublisher{}
	}

	l := &Log{
		logger:    logger,
		store:     store,
		publisher: publisher,
		pageSize:  defaultPageSize,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Append stores activity at the end of the wallet's history. It fails only when the wallet does not
// exist or the store is unavailable; publishing is best effort.
func (l *Log) Append(ctx context.Context, walletName string, activity model.Activity) error {
	if err := l.store.AppendActivity(ctx, walletName, activity); err != nil {
		return err
	}

	l.Publish(ctx, walletName, activity)

	return nil
}

// Publish hands committed activities to the publisher. Failures are logged and dropped.
func (l *Log) Publish(ctx context.Context, walletName string, activities ...model.Activity) {
	for _, activity := range activities {
		if err := l.publisher.Publish(ctx, walletName, activity); err != nil {
			l.logger.Warnf("[Activity] failed to publish %s of %s for wallet %s: %v", activity.Action, activity.Utxo, walletName, err)
		}
	}
}

// All returns the wallet's activities oldest first. Nothing is read until the sequence is iterated,
// pages are fetched as iteration proceeds, and every iteration starts again from the beginning.
// A read error is yielded once and ends the sequence.
func (l *Log) All(ctx context.Context, walletName string) iter.Seq2[model.Activity, error] {
	return func(yield func(model.Activity, error) bool) {
		offset := 0

		for {
			page, err := l.store.GetActivities(ctx, walletName, offset, l.pageSize)
			if err != nil {
				yield(model.Activity{}, err)
				return
			}

			for _, activity := range page {
				if !yield(activity, nil) {
					return
				}
			}

			if len(page) < l.pageSize {
				return
			}

			offset += len(page)
		}
	}
}

// Record returns a snapshot of wallet with activity appended.
func Record(wallet *model.Wallet, activity model.Activity) *model.Wallet {
	return wallet.WithActivity(activity)
}

// NewWithdraw is the activity written when a withdrawal of amount is broadcast as txid.
func NewWithdraw(txid string, amount uint64, now time.Time) model.Activity {
	return model.Activity{
		Utxo:   txid,
		Amount: amount,
		Action: model.ActionWithdraw,
		Date:   now.UTC(),
	}
}
