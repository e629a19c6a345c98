package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const TypePurchaseRecorded = "purchase.recorded"

// flushInterval bounds how long WriteMessages waits for a partial batch.
const flushInterval = 10 * time.Millisecond

// PurchaseRecorded is emitted after a purchase commits.
type PurchaseRecorded struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	TrdID      uint      `json:"trd_id"`
	EmpCD      string    `json:"emp_cd"`
	StoreCD    string    `json:"store_cd"`
	PosNo      string    `json:"pos_no"`
	TotalAmt   int       `json:"total_amt"`
	ItemCount  int       `json:"item_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewPurchaseRecorded stamps a fresh event id and type.
func NewPurchaseRecorded(trdID uint, empCD, storeCD, posNo string, total, items int, at time.Time) PurchaseRecorded {
	return PurchaseRecorded{
		EventID:    uuid.NewString(),
		Type:       TypePurchaseRecorded,
		TrdID:      trdID,
		EmpCD:      empCD,
		StoreCD:    storeCD,
		PosNo:      posNo,
		TotalAmt:   total,
		ItemCount:  items,
		OccurredAt: at.UTC(),
	}
}

type Publisher interface {
	PublishPurchaseRecorded(ctx context.Context, evt PurchaseRecorded) error
	Close() error
}

// Nop discards events. It is used when no brokers are configured.
type Nop struct{}

func (Nop) PublishPurchaseRecorded(context.Context, PurchaseRecorded) error { return nil }
func (Nop) Close() error                                                  { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by store code so one store's receipts
// stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           flushInterval,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) PublishPurchaseRecorded(ctx context.Context, evt PurchaseRecorded) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.StoreCD),
		Value: data,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
			{Key: "trd_id", Value: []byte(strconv.FormatUint(uint64(evt.TrdID), 10))},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
