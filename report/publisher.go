package report

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// RunEvent is the message published to Kafka after a matrix run, one event
// per run with one entry per session.
type RunEvent struct {
	Test       string         `json:"test"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Passed     int            `json:"passed"`
	Failed     int            `json:"failed"`
	Sessions   []SessionEvent `json:"sessions"`
}

// SessionEvent summarizes one session inside a RunEvent.
type SessionEvent struct {
	Key             string  `json:"key"`
	Label           string  `json:"label"`
	Status          string  `json:"status"`
	Reason          string  `json:"reason,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// PublisherConfig holds Kafka publisher configuration
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

// Publisher pushes run events to Kafka so downstream consumers can track
// cross-browser health over time.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(config PublisherConfig) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Printf("✅ Kafka publisher started (topic: %s)", config.Topic)
	return &Publisher{producer: producer, topic: config.Topic}, nil
}

// BuildRunEvent flattens a report into the wire shape.
func BuildRunEvent(testName string, r *types.RunReport) RunEvent {
	passed, failed := r.Counts()
	event := RunEvent{
		Test:       testName,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Passed:     passed,
		Failed:     failed,
		Sessions:   make([]SessionEvent, 0, r.Len()),
	}
	for _, outcome := range r.All() {
		event.Sessions = append(event.Sessions, SessionEvent{
			Key:             outcome.Descriptor.Key(),
			Label:           outcome.Descriptor.Label(),
			Status:          string(outcome.Status),
			Reason:          outcome.FailureReason,
			DurationSeconds: outcome.Duration().Seconds(),
		})
	}
	return event
}

// PublishRun sends the run event and waits for broker acknowledgement.
func (p *Publisher) PublishRun(testName string, r *types.RunReport) error {
	payload, err := json.Marshal(BuildRunEvent(testName, r))
	if err != nil {
		return fmt.Errorf("failed to encode run event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(testName),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}
	log.Printf("📤 published run event: partition=%d, offset=%d", partition, offset)
	return nil
}

// Close gracefully shuts down the publisher
func (p *Publisher) Close() error {
	return p.producer.Close()
}
