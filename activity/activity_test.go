package activity

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/stores/wallet/memory"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/commerceblock/mercuryclient/util/kafka"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts page reads so tests can observe laziness.
type countingStore struct {
	*memory.Memory
	reads int
}

func (c *countingStore) GetActivities(ctx context.Context, walletName string, offset int, limit int) ([]model.Activity, error) {
	c.reads++
	return c.Memory.GetActivities(ctx, walletName, offset, limit)
}

func newStoreWithWallet(t *testing.T) *countingStore {
	s := &countingStore{Memory: memory.New()}
	require.NoError(t, s.CreateWallet(context.Background(), model.NewWallet("w1", "regtest", nil, nil)))

	return s
}

func TestLog_Append(t *testing.T) {
	ctx := context.Background()
	s := newStoreWithWallet(t)
	l := New(ulogger.TestLogger{}, s, nil)

	require.NoError(t, l.Append(ctx, "w1", model.Activity{Utxo: "a", Action: model.ActionDeposit}))
	require.NoError(t, l.Append(ctx, "w1", model.Activity{Utxo: "a", Action: model.ActionDeposit}))

	err := l.Append(ctx, "nope", model.Activity{Utxo: "a"})
	require.ErrorIs(t, err, errors.ErrWalletNotFound)

	var got []model.Activity

	for a, err := range l.All(ctx, "w1") {
		require.NoError(t, err)

		got = append(got, a)
	}

	// no dedup
	assert.Len(t, got, 2)
}

func TestLog_All(t *testing.T) {
	ctx := context.Background()

	t.Run("lazy and paged", func(t *testing.T) {
		s := newStoreWithWallet(t)
		l := New(ulogger.TestLogger{}, s, nil, WithPageSize(2))

		for _, utxo := range []string{"a", "b", "c", "d", "e"} {
			require.NoError(t, l.Append(ctx, "w1", model.Activity{Utxo: utxo, Action: model.ActionReceive}))
		}

		seq := l.All(ctx, "w1")
		assert.Equal(t, 0, s.reads)

		var utxos []string

		for a, err := range seq {
			require.NoError(t, err)

			utxos = append(utxos, a.Utxo)
		}

		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, utxos)
		assert.Equal(t, 3, s.reads)
	})

	t.Run("restartable", func(t *testing.T) {
		s := newStoreWithWallet(t)
		l := New(ulogger.TestLogger{}, s, nil, WithPageSize(2))

		for _, utxo := range []string{"a", "b", "c"} {
			require.NoError(t, l.Append(ctx, "w1", model.Activity{Utxo: utxo}))
		}

		seq := l.All(ctx, "w1")

		for a, err := range seq {
			require.NoError(t, err)
			assert.Equal(t, "a", a.Utxo)

			break
		}

		count := 0

		for _, err := range seq {
			require.NoError(t, err)

			count++
		}

		assert.Equal(t, 3, count)
	})

	t.Run("unknown wallet yields the error", func(t *testing.T) {
		l := New(ulogger.TestLogger{}, memory.New(), nil)

		count := 0

		for _, err := range l.All(ctx, "nope") {
			require.ErrorIs(t, err, errors.ErrWalletNotFound)

			count++
		}

		assert.Equal(t, 1, count)
	})
}

func TestRecord(t *testing.T) {
	w := model.NewWallet("w1", "regtest", nil, nil)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	next := Record(w, NewWithdraw("txid", 50000, now))

	assert.Equal(t, 0, w.ActivityCount())
	require.Equal(t, 1, next.ActivityCount())
	assert.Equal(t, model.Activity{Utxo: "txid", Amount: 50000, Action: model.ActionWithdraw, Date: now}, next.Activities()[0])
}

func TestKafkaPublisher(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	mockProducer := mocks.NewSyncProducer(t, config)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var m Message
		if err := jsoniter.Unmarshal(value, &m); err != nil {
			return err
		}

		if m.WalletName != "w1" || m.Utxo != "txid" || m.Amount != 50000 || m.Action != model.ActionWithdraw {
			return errors.NewProcessingError("unexpected message %s", string(value))
		}

		return nil
	})

	p := NewKafkaPublisher(ulogger.TestLogger{}, &kafka.SyncKafkaProducer{Producer: mockProducer, Topic: "activities"})

	s := newStoreWithWallet(t)
	l := New(ulogger.TestLogger{}, s, p)

	require.NoError(t, l.Append(context.Background(), "w1", NewWithdraw("txid", 50000, time.Now())))
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_FailureDoesNotFailAppend(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisher(ulogger.TestLogger{}, &kafka.SyncKafkaProducer{Producer: mockProducer, Topic: "activities"})

	s := newStoreWithWallet(t)
	l := New(ulogger.TestLogger{}, s, p)

	require.NoError(t, l.Append(context.Background(), "w1", NewWithdraw("txid", 1, time.Now())))

	page, err := s.GetActivities(context.Background(), "w1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	require.NoError(t, p.Close())
}

func TestNewPublisher_NoURL(t *testing.T) {
	p, err := NewPublisher(ulogger.TestLogger{}, nil)
	require.NoError(t, err)
	assert.IsType(t, NullPublisher{}, p)
	require.NoError(t, p.Close())
}
