// Package sql is the wallet store on postgres or sqlite. The URL scheme passed to New picks the
// engine: postgres://, sqlite:/// or sqlitememory:///.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/settings"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/commerceblock/mercuryclient/util"
	"github.com/commerceblock/mercuryclient/util/usql"
	"github.com/lib/pq"
	"github.com/ordishs/gocore"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pqUniqueViolation = "23505"

type SQL struct {
	db     *usql.DB
	engine util.SQLEngine
	logger ulogger.Logger
}

// querier is satisfied by both the database handle and an open transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func init() {
	gocore.NewStat("walletstore")
}

func New(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*SQL, error) {
	logger = logger.New("wsql")

	db, err := util.InitSQLDB(logger, storeURL, tSettings)
	if err != nil {
		return nil, errors.NewStorageError("failed to init sql db", err)
	}

	switch util.SQLEngine(storeURL.Scheme) {
	case util.Postgres:
		if err = createPostgresSchema(db); err != nil {
			return nil, errors.NewStorageError("failed to create postgres schema", err)
		}

	case util.Sqlite, util.SqliteMemory:
		if err = createSqliteSchema(db); err != nil {
			return nil, errors.NewStorageError("failed to create sqlite schema", err)
		}

	default:
		return nil, errors.NewStorageError("unknown database engine: %s", storeURL.Scheme)
	}

	return &SQL{
		db:     db,
		engine: util.SQLEngine(storeURL.Scheme),
		logger: logger,
	}, nil
}

func (s *SQL) GetDB() *usql.DB {
	return s.db
}

func (s *SQL) GetDBEngine() util.SQLEngine {
	return s.engine
}

func (s *SQL) Health(ctx context.Context, _ bool) (int, string, error) {
	details := fmt.Sprintf("SQL Engine is %s", s.engine)

	var num int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&num); err != nil {
		return http.StatusServiceUnavailable, details, errors.NewStorageUnavailableError("wallet store ping failed", err)
	}

	return http.StatusOK, details, nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func walletExists(ctx context.Context, q querier, name string) (bool, error) {
	var one int

	err := q.QueryRowContext(ctx, `SELECT 1 FROM wallets WHERE name = $1`, name).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// isUniqueViolation reports a primary key or unique constraint failure on either engine.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return isSqliteUniqueCode(liteErr.Code())
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isSqliteUniqueCode(code int) bool {
	return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func createPostgresSchema(db *usql.DB) error {
	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS wallets (
	     name          VARCHAR(255) PRIMARY KEY
	    ,network       VARCHAR(16) NOT NULL
	    ,inserted_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create wallets table", err)
	}

	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS coins (
	     wallet_name          VARCHAR(255) NOT NULL REFERENCES wallets(name)
	    ,statechain_id        VARCHAR(255) NOT NULL
	    ,amount               BIGINT NOT NULL
	    ,user_pubkey          TEXT NOT NULL
	    ,server_pubkey        TEXT NOT NULL
	    ,public_nonce         TEXT NOT NULL
	    ,server_public_nonce  TEXT NOT NULL
	    ,blinding_factor      TEXT NOT NULL
	    ,address              TEXT NOT NULL
	    ,utxo_txid            TEXT NOT NULL
	    ,utxo_vout            BIGINT NOT NULL
	    ,status               VARCHAR(32) NOT NULL
	    ,tx_withdraw          TEXT NOT NULL
	    ,updated_at           TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	    ,PRIMARY KEY (wallet_name, statechain_id)
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create coins table", err)
	}

	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS activities (
	     id            BIGSERIAL PRIMARY KEY
	    ,wallet_name   VARCHAR(255) NOT NULL REFERENCES wallets(name)
	    ,utxo          TEXT NOT NULL
	    ,amount        BIGINT NOT NULL
	    ,action        VARCHAR(16) NOT NULL
	    ,date          BIGINT NOT NULL
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create activities table", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_activities_wallet_id ON activities (wallet_name, id);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create idx_activities_wallet_id index", err)
	}

	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS backup_txs (
	     statechain_id        VARCHAR(255) NOT NULL
	    ,tx_n                 BIGINT NOT NULL
	    ,tx                   TEXT NOT NULL
	    ,client_public_nonce  TEXT NOT NULL
	    ,server_public_nonce  TEXT NOT NULL
	    ,client_public_key    TEXT NOT NULL
	    ,server_public_key    TEXT NOT NULL
	    ,blinding_factor      TEXT NOT NULL
	    ,to_address           TEXT NOT NULL
	    ,withdrawal           BOOLEAN NOT NULL DEFAULT FALSE
	    ,inserted_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	    ,PRIMARY KEY (statechain_id, tx_n)
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create backup_txs table", err)
	}

	return nil
}

func createSqliteSchema(db *usql.DB) error {
	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS wallets (
	     name          TEXT PRIMARY KEY
	    ,network       TEXT NOT NULL
	    ,inserted_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create wallets table", err)
	}

	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS coins (
	     wallet_name          TEXT NOT NULL REFERENCES wallets(name)
	    ,statechain_id        TEXT NOT NULL
	    ,amount               BIGINT NOT NULL
	    ,user_pubkey          TEXT NOT NULL
	    ,server_pubkey        TEXT NOT NULL
	    ,public_nonce         TEXT NOT NULL
	    ,server_public_nonce  TEXT NOT NULL
	    ,blinding_factor      TEXT NOT NULL
	    ,address              TEXT NOT NULL
	    ,utxo_txid            TEXT NOT NULL
	    ,utxo_vout            BIGINT NOT NULL
	    ,status               TEXT NOT NULL
	    ,tx_withdraw          TEXT NOT NULL
	    ,updated_at           TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	    ,PRIMARY KEY (wallet_name, statechain_id)
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create coins table", err)
	}

	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS activities (
	     id            INTEGER PRIMARY KEY AUTOINCREMENT
	    ,wallet_name   TEXT NOT NULL REFERENCES wallets(name)
	    ,utxo          TEXT NOT NULL
	    ,amount        BIGINT NOT NULL
	    ,action        TEXT NOT NULL
	    ,date          BIGINT NOT NULL
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create activities table", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_activities_wallet_id ON activities (wallet_name, id);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create idx_activities_wallet_id index", err)
	}

	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS backup_txs (
	     statechain_id        TEXT NOT NULL
	    ,tx_n                 BIGINT NOT NULL
	    ,tx                   TEXT NOT NULL
	    ,client_public_nonce  TEXT NOT NULL
	    ,server_public_nonce  TEXT NOT NULL
	    ,client_public_key    TEXT NOT NULL
	    ,server_public_key    TEXT NOT NULL
	    ,blinding_factor      TEXT NOT NULL
	    ,to_address           TEXT NOT NULL
	    ,withdrawal           BOOLEAN NOT NULL DEFAULT 0
	    ,inserted_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	    ,PRIMARY KEY (statechain_id, tx_n)
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create backup_txs table", err)
	}

	return nil
}
