package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"NEF_Emulator/backend/go/internal/config"
	"NEF_Emulator/backend/go/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher 把实体变更事件发送到 Kafka。
// 消息的 key 是 "<entity>:<key>"，同一实体的事件会落到同一个分区，保证顺序。
type EventPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewEventPublisher 创建一个新的 EventPublisher 实例。
// 调用前应先通过 EnsureTopic 确认主题存在。
func NewEventPublisher(cfg *config.KafkaConfig) (*EventPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("未配置 Kafka brokers")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
		RequiredAcks: kafka.RequireOne,
	}
	return &EventPublisher{writer: writer, topic: cfg.Topic}, nil
}

// EnsureTopic 连接第一个 broker，并在主题不存在时创建它。
func EnsureTopic(cfg *config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("未配置 Kafka brokers")
	}
	conn, err := kafka.Dial("tcp", cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("kafka 初始化连接失败: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("无法读取 Kafka 分区信息: %w", err)
	}
	for _, p := range partitions {
		if p.Topic == cfg.Topic {
			return nil
		}
	}

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("自动创建 Kafka 主题 %q 失败: %w", cfg.Topic, err)
	}
	return nil
}

// Publish 将事件序列化为 JSON 并发送到 Kafka。
func (p *EventPublisher) Publish(ctx context.Context, ev *models.EntityEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal entity event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(string(ev.Entity) + ":" + ev.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(ev.Action)},
		},
		Time: ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

// Close 关闭底层的 writer 连接。
func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
