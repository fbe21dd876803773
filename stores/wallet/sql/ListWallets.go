package sql

import (
	"context"

	"github.com/commerceblock/mercuryclient/errors"
)

func (s *SQL) ListWallets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM wallets ORDER BY name`)
	if err != nil {
		return nil, errors.NewStorageError("failed to list wallets", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	names := make([]string, 0)

	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, errors.NewStorageError("failed to scan wallet name", err)
		}

		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read wallet names", err)
	}

	return names, nil
}
