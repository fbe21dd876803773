package wallet

import (
	"net/url"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/settings"
	"github.com/commerceblock/mercuryclient/stores/wallet/memory"
	"github.com/commerceblock/mercuryclient/stores/wallet/sql"
	"github.com/commerceblock/mercuryclient/ulogger"
)

func NewStore(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (Store, error) {
	if storeURL == nil {
		return nil, errors.NewConfigurationError("no wallet store URL configured")
	}

	switch storeURL.Scheme {
	case "memory":
		return memory.New(), nil
	case "postgres":
		fallthrough
	case "sqlitememory":
		fallthrough
	case "sqlite":
		return sql.New(logger, storeURL, tSettings)
	}

	return nil, errors.NewStorageError("unknown scheme: %s", storeURL.Scheme)
}
