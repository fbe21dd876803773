package sql

import (
	"context"
	"math"
	"time"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
)

// GetActivities returns up to limit activities of the wallet starting at offset, oldest first. A
// limit of zero or less returns everything from offset on.
func (s *SQL) GetActivities(ctx context.Context, walletName string, offset int, limit int) ([]model.Activity, error) {
	exists, err := walletExists(ctx, s.db, walletName)
	if err != nil {
		return nil, errors.NewStorageError("failed to look up wallet %s", walletName, err)
	}

	if !exists {
		return nil, errors.NewWalletNotFoundError("wallet %s not found", walletName)
	}

	return s.queryActivities(ctx, walletName, offset, limit)
}

func (s *SQL) queryActivities(ctx context.Context, walletName string, offset int, limit int) ([]model.Activity, error) {
	if offset < 0 {
		offset = 0
	}

	if limit <= 0 {
		limit = math.MaxInt32
	}

	const query = `
		SELECT utxo, amount, action, date
		FROM activities
		WHERE wallet_name = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, walletName, limit, offset)
	if err != nil {
		return nil, errors.NewStorageError("failed to get activities of wallet %s", walletName, err)
	}

	defer func() {
		_ = rows.Close()
	}()

	activities := make([]model.Activity, 0)

	for rows.Next() {
		var (
			activity model.Activity
			action   string
			date     int64
		)

		if err = rows.Scan(&activity.Utxo, &activity.Amount, &action, &date); err != nil {
			return nil, errors.NewStorageError("failed to scan activity of wallet %s", walletName, err)
		}

		activity.Action = model.ActivityAction(action)
		activity.Date = time.Unix(0, date).UTC()
		activities = append(activities, activity)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read activities of wallet %s", walletName, err)
	}

	return activities, nil
}
