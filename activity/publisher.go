package activity

import (
	"context"
	"net/url"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/commerceblock/mercuryclient/ulogger"
	"github.com/commerceblock/mercuryclient/util/kafka"
	jsoniter "github.com/json-iterator/go"
)

// Publisher notifies other systems about committed activities.
type Publisher interface {
	Publish(ctx context.Context, walletName string, activity model.Activity) error
	Close() error
}

type NullPublisher struct{}

func (NullPublisher) Publish(_ context.Context, _ string, _ model.Activity) error {
	return nil
}

func (NullPublisher) Close() error {
	return nil
}

// Message is the JSON document written to kafka for each activity.
type Message struct {
	WalletName string               `json:"wallet_name"`
	Utxo       string               `json:"utxo"`
	Amount     uint64               `json:"amount"`
	Action     model.ActivityAction `json:"action"`
	Date       string               `json:"date"`
}

// KafkaPublisher writes one message per activity, keyed by wallet name so that a wallet's history
// stays ordered within its partition.
type KafkaPublisher struct {
	logger   ulogger.Logger
	producer kafka.KafkaProducerI
}

func NewKafkaPublisher(logger ulogger.Logger, producer kafka.KafkaProducerI) *KafkaPublisher {
	return &KafkaPublisher{
		logger:   logger,
		producer: producer,
	}
}

// NewPublisher connects to kafka when kafkaURL is set and returns a NullPublisher otherwise.
func NewPublisher(logger ulogger.Logger, kafkaURL *url.URL) (Publisher, error) {
	if kafkaURL == nil {
		return NullPublisher{}, nil
	}

	producer, err := kafka.NewKafkaProducer(kafkaURL)
	if err != nil {
		return nil, errors.NewServiceError("failed to create activity producer", err)
	}

	logger.Infof("[Activity] publishing activities to kafka %s", kafkaURL.Redacted())

	return NewKafkaPublisher(logger, producer), nil
}

func (k *KafkaPublisher) Publish(_ context.Context, walletName string, activity model.Activity) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(Message{
		WalletName: walletName,
		Utxo:       activity.Utxo,
		Amount:     activity.Amount,
		Action:     activity.Action,
		Date:       activity.Date.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		return errors.NewProcessingError("failed to encode activity message", err)
	}

	return k.producer.Send([]byte(walletName), data)
}

func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}
