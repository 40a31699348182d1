// MongoHandler is an slog.Handler that asynchronously stores log records in
// a MongoDB collection, designed for zero impact on the hot request path:
//
//   - Writes are enqueued into a buffered channel (non-blocking).
//   - A single background goroutine drains the channel and performs
//     InsertMany in batches.
//   - If the channel is full the record is silently dropped; logging must
//     never block application code.
//   - Graceful shutdown: call Close() to flush.
package logger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	mongoQueueSize = 4096 // buffered channel capacity
	mongoBatchSize = 50   // maximum documents per InsertMany
	mongoDrainTick = 2 * time.Second
)

// LogDocument is the shape written to MongoDB.
type LogDocument struct {
	Time  time.Time `bson:"time"`
	Level string    `bson:"level"`
	Msg   string    `bson:"msg"`
	Attrs bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler is an slog.Handler that writes to MongoDB asynchronously.
// It reuses the application's Mongo connection rather than opening its own.
type MongoHandler struct {
	col      *mongo.Collection
	queue    chan LogDocument
	stop     chan struct{}
	done     chan struct{}
	stopOnce *sync.Once
	attrs    []slog.Attr
	level    slog.Level
}

// NewMongoHandler writes INFO-and-above records into the given collection.
// The caller must eventually call Close().
func NewMongoHandler(col *mongo.Collection) *MongoHandler {
	h := &MongoHandler{
		col:      col,
		queue:    make(chan LogDocument, mongoQueueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		stopOnce: &sync.Once{},
		level:    slog.LevelInfo,
	}

	go h.drainLoop()
	return h
}

func (h *MongoHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	doc := LogDocument{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}

	for _, a := range h.attrs {
		doc.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		doc.Attrs[a.Key] = a.Value.Any()
		return true
	})
	if len(doc.Attrs) == 0 {
		doc.Attrs = nil
	}

	select {
	case <-h.stop:
		// sink closed; drop
		return nil
	default:
	}

	select {
	case h.queue <- doc:
	default:
		// queue full — drop rather than block the request path
	}
	return nil
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup is accepted but flattened; the log documents keep a single
// attrs map for easy querying.
func (h *MongoHandler) WithGroup(string) slog.Handler { return h }

// Close flushes any queued records and stops the drain goroutine. The
// queue itself is never closed: a racing Handle after Close is a silent
// drop, never a send on a closed channel. Safe to call more than once.
func (h *MongoHandler) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *MongoHandler) drainLoop() {
	defer close(h.done)

	batch := make([]interface{}, 0, mongoBatchSize)
	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = h.col.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-h.queue:
			batch = append(batch, doc)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-h.stop:
			// take what is already buffered, then exit
			for {
				select {
				case doc := <-h.queue:
					batch = append(batch, doc)
					if len(batch) >= mongoBatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
