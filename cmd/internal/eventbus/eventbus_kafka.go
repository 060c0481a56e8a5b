package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"techsphere/cmd/internal/logger"
)

// KafkaPublisher는 confluent-kafka-go Producer 로 단일 토픽에 이벤트를 발행한다.
type KafkaPublisher struct {
	Producer *kafka.Producer
	Topic    string
}

func NewKafkaPublisher(brokers, topic string) (*KafkaPublisher, error) {
	if brokers == "" {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// 전달 보고서는 Events 채널로 모인다. 요청 경로는 전달을 기다리지 않는다.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.ErrorWithFields("kafka delivery failed", logger.Fields{
						"topic": topic,
						"key":   string(ev.Key),
						"error": ev.TopicPartition.Error.Error(),
					})
				}
			case kafka.Error:
				logger.Log.Errorf("Kafka 오류: %v", ev)
			}
		}
	}()

	return &KafkaPublisher{Producer: p, Topic: topic}, nil
}

// Publish enqueues the event; delivery failures surface asynchronously in the log.
func (k *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	key := event.Key
	if key == "" {
		key = event.ID
	}
	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.Topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(key),
	}, nil)
	if err != nil {
		return fmt.Errorf("메시지 발행 실패: %w", err)
	}
	return nil
}

// Close flushes pending messages for up to 5 seconds.
func (k *KafkaPublisher) Close() {
	if k.Producer == nil {
		return
	}
	if remaining := k.Producer.Flush(5000); remaining > 0 {
		logger.Log.Warnf("플러시 후에도 %d개의 메시지가 남아 있습니다.", remaining)
	}
	k.Producer.Close()
	logger.Log.Info("Kafka Producer 종료.")
}
