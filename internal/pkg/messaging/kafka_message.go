package messaging

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafkaMessage adapts a consumed kafka.Message to the Message interface.
// Ack commits the offset; Nack leaves it uncommitted so the broker
// redelivers.
type kafkaMessage struct {
	reader *kafka.Reader
	msg    kafka.Message

	responded atomic.Bool
}

func newKafkaMessage(reader *kafka.Reader, msg kafka.Message) *kafkaMessage {
	return &kafkaMessage{reader: reader, msg: msg}
}

func (m *kafkaMessage) hasResponded() bool {
	return m.responded.Load()
}

func (m *kafkaMessage) Body() []byte { return m.msg.Value }
func (m *kafkaMessage) Key() []byte  { return m.msg.Key }

func (m *kafkaMessage) Headers() []Header {
	if len(m.msg.Headers) == 0 {
		return nil
	}
	headers := make([]Header, len(m.msg.Headers))
	for i, h := range m.msg.Headers {
		headers[i] = Header{Key: h.Key, Value: h.Value}
	}
	return headers
}

func (m *kafkaMessage) Attributes() map[string]string {
	if len(m.msg.Headers) == 0 {
		return nil
	}
	// first value wins for duplicate header keys
	attrs := make(map[string]string, len(m.msg.Headers))
	for _, h := range m.msg.Headers {
		if _, seen := attrs[h.Key]; !seen {
			attrs[h.Key] = string(h.Value)
		}
	}
	return attrs
}

func (m *kafkaMessage) ID() string {
	return fmt.Sprintf("%s/%d/%d", m.msg.Topic, m.msg.Partition, m.msg.Offset)
}

func (m *kafkaMessage) Topic() string   { return m.msg.Topic }
func (m *kafkaMessage) Subject() string { return "" }

func (m *kafkaMessage) Timestamp() time.Time { return m.msg.Time }

func (m *kafkaMessage) Ack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.responded.Swap(true) {
		return nil
	}
	return m.reader.CommitMessages(ctx, m.msg)
}

func (m *kafkaMessage) Nack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Leaving the offset uncommitted makes the broker redeliver the message.
	m.responded.Store(true)
	return nil
}

func (m *kafkaMessage) Metadata() map[string]any {
	return map[string]any{
		"topic":     m.msg.Topic,
		"partition": m.msg.Partition,
		"offset":    m.msg.Offset,
	}
}

func (m *kafkaMessage) Raw() any { return m.msg }
