// Package broadcaster drains the event outbox into Kafka.
package broadcaster

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/IBM/sarama"

	"redblack/infra/outbox"
)

const (
	DefaultInterval   = 250 * time.Millisecond
	DefaultMaxRetries = 5
)

type Config struct {
	Topic      string
	Interval   time.Duration
	MaxRetries uint32
	// PruneAcked deletes entries once the broker has acknowledged them.
	PruneAcked bool
}

type Broadcaster struct {
	box      *outbox.Outbox
	producer sarama.SyncProducer
	cfg      Config
}

// Stats summarises one drain pass.
type Stats struct {
	Acked  int
	Failed int
	Parked int
}

// ------------------------------------------------
// CONSTRUCTORS
// ------------------------------------------------

// NewSyncProducer dials brokers with the settings the broadcaster expects.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	return sarama.NewSyncProducer(brokers, cfg)
}

func New(box *outbox.Outbox, producer sarama.SyncProducer, cfg Config) *Broadcaster {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Broadcaster{box: box, producer: producer, cfg: cfg}
}

// ------------------------------------------------
// LOOP
// ------------------------------------------------

// Run drains the outbox every interval until ctx is done.
func (b *Broadcaster) Run(ctx context.Context) {
	log.Printf("[broadcaster] started topic=%s interval=%s", b.cfg.Topic, b.cfg.Interval)
	defer log.Println("[broadcaster] stopped")

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := b.DrainOnce(); err != nil {
				log.Printf("[broadcaster] drain failed: %v", err)
			}
		}
	}
}

// ------------------------------------------------
// DRAIN
// ------------------------------------------------

// DrainOnce publishes every NEW entry and every FAILED entry still under
// the retry limit, in sequence order. Entries left SENT by an interrupted
// pass are published again. Publish failures are recorded on the entry;
// only storage errors are returned.
//
// A single broadcaster may drain a given outbox at a time.
func (b *Broadcaster) DrainOnce() (Stats, error) {
	var (
		stats   Stats
		pending []outbox.Record
	)
	collect := func(rec outbox.Record) error {
		pending = append(pending, rec)
		return nil
	}
	if err := b.box.ScanByState(outbox.StateNew, collect); err != nil {
		return stats, err
	}
	if err := b.box.ScanByState(outbox.StateSent, collect); err != nil {
		return stats, err
	}
	if err := b.box.ScanByState(outbox.StateFailed, collect); err != nil {
		return stats, err
	}
	slices.SortFunc(pending, func(x, y outbox.Record) int { return cmp.Compare(x.Seq, y.Seq) })

	var lastAcked uint64
	for _, rec := range pending {
		if rec.State == outbox.StateFailed && rec.Retries >= b.cfg.MaxRetries {
			stats.Parked++
			continue
		}

		// 1. mark SENT so a crash mid-publish is visible
		if err := b.box.UpdateState(rec.Seq, outbox.StateSent, rec.Retries); err != nil {
			return stats, err
		}

		// 2. publish
		_, _, err := b.producer.SendMessage(&sarama.ProducerMessage{
			Topic: b.cfg.Topic,
			Key:   sarama.ByteEncoder(seqKey(rec.Seq)),
			Value: sarama.ByteEncoder(rec.Payload),
		})
		if err != nil {
			stats.Failed++
			if uerr := b.box.UpdateState(rec.Seq, outbox.StateFailed, rec.Retries+1); uerr != nil {
				return stats, fmt.Errorf("record failure of %d: %w", rec.Seq, uerr)
			}
			continue
		}

		// 3. mark ACKED
		if err := b.box.UpdateState(rec.Seq, outbox.StateAcked, rec.Retries); err != nil {
			return stats, err
		}
		stats.Acked++
		lastAcked = max(lastAcked, rec.Seq)
	}

	if b.cfg.PruneAcked && lastAcked > 0 {
		if err := b.box.DeleteAckedUpTo(lastAcked); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// ------------------------------------------------
// SHUTDOWN
// ------------------------------------------------

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}

func seqKey(seq uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], seq)
	return k[:]
}
