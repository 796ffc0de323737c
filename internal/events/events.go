package events

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/bookbase/ledger-service/pkg/kafka"
)

const (
	TypeBookBorrowed = "book-borrowed"
	TypeBookReturned = "book-returned"
)

// Event is the message published for every circulation mutation.
type Event struct {
	Type       string    `json:"type"`
	RecordID   string    `json:"recordId"`
	BookID     string    `json:"bookId"`
	StudentID  string    `json:"studentId"`
	HandlerID  string    `json:"handlerId"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Enqueuer interface {
	Enqueue(topic string, v any) error
}

func NewEnqueuer(producer sarama.SyncProducer) Enqueuer {
	return &enqueuerImpl{
		producer: producer,
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
}

func (q *enqueuerImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.StringEncoder(data)}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

// Publisher wraps an Enqueuer with the ledger topic and logging; publish
// failures never fail the triggering operation.
type Publisher struct {
	enq Enqueuer
	log *zap.Logger
}

func NewPublisher(enq Enqueuer, log *zap.Logger) *Publisher {
	return &Publisher{
		enq: enq,
		log: log.Named("events"),
	}
}

func (p *Publisher) Publish(ev Event) {
	if p == nil || p.enq == nil {
		return
	}
	if err := p.enq.Enqueue(kafka.LedgerTopic, ev); err != nil {
		p.log.Error("enqueue", zap.String("type", ev.Type), zap.Error(err))
	}
}
