package wallet

import (
	"net/url"
	"testing"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/settings"
	"github.com/commerceblock/mercuryclient/stores/wallet/memory"
	"github.com/commerceblock/mercuryclient/stores/wallet/sql"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	tSettings := &settings.Settings{}

	t.Run("memory", func(t *testing.T) {
		u, err := url.Parse("memory:///")
		require.NoError(t, err)

		s, err := NewStore(ulogger.TestLogger{}, u, tSettings)
		require.NoError(t, err)
		assert.IsType(t, &memory.Memory{}, s)
	})

	t.Run("sqlitememory", func(t *testing.T) {
		u, err := url.Parse("sqlitememory:///")
		require.NoError(t, err)

		s, err := NewStore(ulogger.TestLogger{}, u, tSettings)
		require.NoError(t, err)
		assert.IsType(t, &sql.SQL{}, s)
		require.NoError(t, s.Close())
	})

	t.Run("unknown scheme", func(t *testing.T) {
		u, err := url.Parse("redis://localhost:6379")
		require.NoError(t, err)

		_, err = NewStore(ulogger.TestLogger{}, u, tSettings)
		require.ErrorIs(t, err, errors.ErrStorageError)
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := NewStore(ulogger.TestLogger{}, nil, tSettings)
		require.ErrorIs(t, err, errors.ErrConfiguration)
	})
}
