package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"redblack/api/grpcserver"
	"redblack/domain/rbtree"
	"redblack/infra/changelog"
	"redblack/infra/kafka"
	"redblack/infra/outbox"
	"redblack/infra/sequence"
	"redblack/jobs/broadcaster"
	"redblack/service"
	"redblack/tracking"
)

type config struct {
	addr         string
	changelogDir string
	segmentSize  int64
	syncEach     bool
	codec        string
	outboxDir    string
	brokers      string
	topic        string
	streamTopic  string
	drainEvery   time.Duration
	verbose      bool
}

func parseFlags() config {
	var c config
	flag.StringVar(&c.addr, "addr", ":50051", "gRPC listen address")
	flag.StringVar(&c.changelogDir, "changelog", "./changelog", "change log directory")
	flag.Int64Var(&c.segmentSize, "segment-size", changelog.DefaultSegmentSize, "change log segment size in bytes")
	flag.BoolVar(&c.syncEach, "sync", false, "fsync the change log after every event")
	flag.StringVar(&c.codec, "codec", "json", "event encoding: json or proto")
	flag.StringVar(&c.outboxDir, "outbox", "./outbox", "outbox directory (used with -brokers)")
	flag.StringVar(&c.brokers, "brokers", "", "comma-separated Kafka brokers; empty disables publishing")
	flag.StringVar(&c.topic, "topic", "rbtree.events", "topic the broadcaster drains the outbox to")
	flag.StringVar(&c.streamTopic, "stream-topic", "", "topic for direct per-event streaming; empty disables")
	flag.DurationVar(&c.drainEvery, "drain-interval", broadcaster.DefaultInterval, "outbox drain interval")
	flag.BoolVar(&c.verbose, "v", false, "log every tree operation")
	flag.Parse()
	return c
}

func main() {
	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	codec, err := tracking.CodecByName(cfg.codec)
	if err != nil {
		log.Fatalf("codec: %v", err)
	}

	// ---------------- Change log ----------------

	changeLog, err := changelog.Open(changelog.Config{
		Dir:             cfg.changelogDir,
		SegmentSize:     cfg.segmentSize,
		SyncEveryAppend: cfg.syncEach,
	})
	if err != nil {
		log.Fatalf("change log init failed: %v", err)
	}
	defer changeLog.Close()

	sinks := []tracking.Sink{tracking.NewLogSink(changeLog, codec)}

	// ---------------- Publishing ----------------

	var brokers []string
	if cfg.brokers != "" {
		brokers = strings.Split(cfg.brokers, ",")
	}

	if len(brokers) > 0 {
		box, err := outbox.Open(cfg.outboxDir)
		if err != nil {
			log.Fatalf("outbox init failed: %v", err)
		}
		defer box.Close()
		sinks = append(sinks, tracking.NewOutboxSink(box, codec))

		producer, err := broadcaster.NewSyncProducer(brokers)
		if err != nil {
			log.Fatalf("kafka producer init failed: %v", err)
		}
		bc := broadcaster.New(box, producer, broadcaster.Config{
			Topic:      cfg.topic,
			Interval:   cfg.drainEvery,
			PruneAcked: true,
		})
		defer bc.Close()
		go bc.Run(ctx)

		if cfg.streamTopic != "" {
			stream := kafka.NewProducer(brokers, cfg.streamTopic)
			defer stream.Close()
			sinks = append(sinks, tracking.NewStreamSink(stream, codec, tracking.DefaultSendTimeout))
		}
	}

	// ---------------- Domain ----------------

	emitter := tracking.NewEmitter[int64](sequence.New(0), sinks...)
	opts := []rbtree.Option[int64]{rbtree.WithTracker[int64](emitter)}
	if cfg.verbose {
		opts = append(opts, rbtree.WithLogger[int64](tracking.NewStdLogger(nil)))
	}
	svc := service.NewTreeService(rbtree.New(opts...), emitter)

	// ---------------- Replay ----------------

	lastSeq, err := svc.Restore(cfg.changelogDir, codec, service.ParseInt64)
	if err != nil {
		log.Fatalf("change log replay failed: %v", err)
	}
	changeLog.SetLastSeq(lastSeq)
	if err := svc.Verify(); err != nil {
		log.Fatalf("replayed tree is invalid: %v", err)
	}

	// ---------------- gRPC ----------------

	lis, err := net.Listen("tcp", cfg.addr)
	if err != nil {
		log.Fatalf("listen failed: %v", err)
	}

	grpcSrv := grpc.NewServer()
	grpcserver.Register(grpcSrv, grpcserver.NewServer(svc))

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		grpcSrv.GracefulStop()
	}()

	log.Printf("rbtree engine running on %s (%d keys restored)", cfg.addr, svc.Len())

	if err := grpcSrv.Serve(lis); err != nil {
		log.Fatalf("gRPC server exited: %v", err)
	}
}
