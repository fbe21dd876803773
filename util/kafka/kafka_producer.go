package kafka

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/IBM/sarama"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/commerceblock/mercuryclient/errors"
)

/**
kafka-topics.sh --list --bootstrap-server localhost:9092

kafka-console-consumer.sh --topic mercury-activities --bootstrap-server localhost:9092 --from-beginning
*/

type KafkaProducerI interface {
	Send(key []byte, data []byte) error
	Close() error
}

type SyncKafkaProducer struct {
	Producer sarama.SyncProducer
	Topic    string
}

func (k *SyncKafkaProducer) Close() error {
	if err := k.Producer.Close(); err != nil {
		return errors.NewServiceError("failed to close Kafka producer", err)
	}

	return nil
}

// Send publishes data synchronously. Messages with the same key land on the same partition.
func (k *SyncKafkaProducer) Send(key []byte, data []byte) error {
	if _, _, err := k.Producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.Topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(data),
	}); err != nil {
		return errors.NewServiceUnavailableError("failed to send Kafka message to %s", k.Topic, err)
	}

	return nil
}

// NewKafkaProducer connects to the brokers in the URL host (comma separated) and ensures the topic
// named by the URL path exists. Query parameters: partitions, replication, retention (ms).
func NewKafkaProducer(kafkaURL *url.URL) (KafkaProducerI, error) {
	brokers := strings.Split(kafkaURL.Host, ",")
	topic := strings.TrimPrefix(kafkaURL.Path, "/")

	if topic == "" {
		return nil, errors.NewConfigurationError("kafka URL %s has no topic", kafkaURL.String())
	}

	config := sarama.NewConfig()
	config.Version = sarama.V2_1_0_0

	clusterAdmin, err := sarama.NewClusterAdmin(brokers, config)
	if err != nil {
		return nil, errors.NewServiceUnavailableError("error while creating cluster admin", err)
	}

	defer func() {
		_ = clusterAdmin.Close()
	}()

	detail, err := topicDetail(kafkaURL)
	if err != nil {
		return nil, err
	}

	if err = clusterAdmin.CreateTopic(topic, detail, false); err != nil && !errors.Is(err, sarama.ErrTopicAlreadyExists) {
		return nil, errors.NewServiceError("failed to create topic %s", topic, err)
	}

	producer, err := ConnectProducer(brokers, topic)
	if err != nil {
		return nil, errors.NewServiceUnavailableError("unable to connect to kafka", err)
	}

	return producer, nil
}

func ConnectProducer(brokers []string, topic string) (*SyncKafkaProducer, error) {
	conn, err := sarama.NewSyncProducer(brokers, ProducerConfig())
	if err != nil {
		return nil, err
	}

	return &SyncKafkaProducer{
		Producer: conn,
		Topic:    topic,
	}, nil
}

// ProducerConfig is the sarama configuration used for every sync producer.
func ProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Partitioner = sarama.NewHashPartitioner

	return config
}

// topicDetail reads partitions, replication and retention from the URL query.
func topicDetail(kafkaURL *url.URL) (*sarama.TopicDetail, error) {
	partitions, err := safeconversion.IntToUint32(queryInt(kafkaURL, "partitions", 1))
	if err != nil {
		return nil, errors.NewConfigurationError("invalid kafka partitions in %s", kafkaURL.String(), err)
	}

	numPartitions, err := safeconversion.Uint32ToInt32(partitions)
	if err != nil {
		return nil, errors.NewConfigurationError("invalid kafka partitions in %s", kafkaURL.String(), err)
	}

	replicationFactor := int16(1)

	if v := kafkaURL.Query().Get("replication"); v != "" {
		r, err := strconv.ParseInt(v, 10, 16)
		if err != nil || r < 1 {
			return nil, errors.NewConfigurationError("invalid kafka replication %q in %s", v, kafkaURL.String())
		}

		replicationFactor = int16(r)
	}

	detail := &sarama.TopicDetail{
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}

	if retention := kafkaURL.Query().Get("retention"); retention != "" {
		detail.ConfigEntries = map[string]*string{"retention.ms": &retention}
	}

	return detail, nil
}

func queryInt(u *url.URL, key string, defaultValue int) int {
	v := u.Query().Get(key)
	if v == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}

	return i
}
