package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookbase/ledger-service/pkg/kafka"
)

type stubEnqueuer struct {
	topic string
	v     any
	err   error
}

func (s *stubEnqueuer) Enqueue(topic string, v any) error {
	s.topic = topic
	s.v = v
	return s.err
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	enq := &stubEnqueuer{}
	pub := NewPublisher(enq, zap.NewNop())

	ev := Event{
		Type:       TypeBookBorrowed,
		RecordID:   "r1",
		BookID:     "1",
		StudentID:  "STU001",
		HandlerID:  "HND001",
		OccurredAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	pub.Publish(ev)

	require.Equal(t, kafka.LedgerTopic, enq.topic)
	require.Equal(t, ev, enq.v)
}

func TestPublisher_NoEnqueuer(t *testing.T) {
	t.Parallel()

	// Disabled events must be a no-op, not a panic.
	pub := NewPublisher(nil, zap.NewNop())
	pub.Publish(Event{Type: TypeBookReturned})
}
