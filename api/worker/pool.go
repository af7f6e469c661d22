// Package worker provides the asynchronous worker pool behind the webhook
// server.
//
// The pool decouples memory writes, archival and event publication from the
// HTTP hot path so the post-call webhook can acknowledge immediately. Every
// step is best effort: failures are logged and the job moves on.
package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/archive"
	"github.com/papercomputeco/callmem/pkg/elevenlabs"
	"github.com/papercomputeco/callmem/pkg/eventstream"
	"github.com/papercomputeco/callmem/pkg/memory/writer"
)

var (
	defaultNumWorkers     uint = 3
	defaultJobQueueSize   uint = 256
	defaultArchiveTimeout      = 10 * time.Second
	defaultPublishTimeout      = 5 * time.Second
)

// JobKind selects what a worker does with a Job.
type JobKind int

const (
	// JobPostCall normalizes a verified post-call body and persists it.
	JobPostCall JobKind = iota

	// JobArchive only writes the job's objects to the archive sink.
	JobArchive
)

func (k JobKind) String() string {
	switch k {
	case JobPostCall:
		return "post_call"
	case JobArchive:
		return "archive"
	default:
		return "unknown"
	}
}

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	Kind JobKind

	// Body is the raw post-call webhook body.
	Body []byte

	// Objects are written as is by archive jobs.
	Objects []*archive.Object
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Writer persists call records as caller memories.
	Writer *writer.Writer

	// Sink archives raw payloads and recordings. Optional.
	Sink archive.Sink

	// Publisher emits a CallPersistedEvent per processed call. Optional.
	Publisher eventstream.Publisher

	// ArchiveTimeout bounds each archive write (defaults to 10s).
	ArchiveTimeout time.Duration

	// PublishTimeout bounds each event publication (defaults to 5s).
	PublishTimeout time.Duration

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool processes jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Writer == nil {
		return nil, errors.New("memory writer is required")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.ArchiveTimeout <= 0 {
		c.ArchiveTimeout = defaultArchiveTimeout
	}

	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaultPublishTimeout
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			zap.Stringer("kind", job.Kind),
			zap.Int("bytes", len(job.Body)),
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			zap.Stringer("kind", job.Kind),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("worker stopped", zap.Uint("worker_id", id))
}

// processJob runs one job, recovering from panics so one payload cannot take
// the process down.
func (p *Pool) processJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("job panicked",
				zap.Stringer("kind", job.Kind),
				zap.Any("panic", r),
			)
		}
	}()

	ctx := context.Background()

	switch job.Kind {
	case JobPostCall:
		p.processPostCall(ctx, job.Body)
	case JobArchive:
		p.archive(ctx, job.Objects...)
	default:
		p.logger.Error("unknown job kind", zap.Int("kind", int(job.Kind)))
	}
}

func (p *Pool) processPostCall(ctx context.Context, body []byte) {
	wh, err := elevenlabs.Normalize(body)
	if err != nil {
		if errors.Is(err, elevenlabs.ErrMissingCallerID) {
			p.logger.Warn("dropping post-call webhook without caller id", zap.Error(err))
			return
		}
		p.logger.Error("could not normalize post-call webhook", zap.Error(err))
		return
	}

	if wh.IsAudio() {
		p.processAudio(ctx, wh.Audio)
		return
	}

	rec := wh.Call
	p.logger.Info("processing post-call webhook",
		zap.String("caller_id", rec.CallerID),
		zap.String("conversation_id", rec.ConversationID),
		zap.String("envelope", string(wh.Envelope.Kind)),
		zap.Int("utterances", len(rec.Transcript)),
	)

	res := p.config.Writer.Persist(ctx, rec)

	archived := p.archive(ctx, callObjects(rec, body, p.logger)...)

	event := eventstream.NewCallPersistedEvent(time.Now())
	event.CallerID = rec.CallerID
	event.ConversationID = rec.ConversationID
	event.AgentID = rec.AgentID
	event.DurationSeconds = rec.DurationSeconds
	event.FactualStored = res.FactualStored
	event.SemanticStored = res.SemanticStored
	event.Archived = archived
	p.publish(ctx, event)

	p.logger.Info("post-call webhook processed",
		zap.String("caller_id", rec.CallerID),
		zap.String("conversation_id", rec.ConversationID),
		zap.Bool("factual_stored", res.FactualStored),
		zap.Bool("semantic_stored", res.SemanticStored),
		zap.Bool("archived", archived),
	)
}

func (p *Pool) processAudio(ctx context.Context, rec *elevenlabs.AudioRecord) {
	audio, err := rec.Decode()
	if err != nil {
		p.logger.Error("could not decode audio-only webhook",
			zap.String("conversation_id", rec.ConversationID),
			zap.Error(err),
		)
		return
	}

	p.archive(ctx, &archive.Object{
		Key:         archive.AudioOnlyKey(rec.AgentID, rec.ConversationID),
		Body:        audio,
		ContentType: archive.ContentTypeMP3,
		Metadata: map[string]string{
			"agent-id":        rec.AgentID,
			"conversation-id": rec.ConversationID,
		},
	})
}

// callObjects are the archive objects of a transcription webhook: the raw
// body and, when present, its embedded recording.
func callObjects(rec *elevenlabs.CallRecord, body []byte, logger *zap.Logger) []*archive.Object {
	meta := map[string]string{
		"caller-id":       rec.CallerID,
		"conversation-id": rec.ConversationID,
		"agent-id":        rec.AgentID,
	}

	objs := []*archive.Object{{
		Key:         archive.PostCallJSONKey(rec.CallerID, rec.ConversationID),
		Body:        body,
		ContentType: archive.ContentTypeJSON,
		Metadata:    meta,
	}}

	audio, err := rec.DecodeAudio()
	switch {
	case err != nil:
		logger.Warn("skipping undecodable full_audio",
			zap.String("conversation_id", rec.ConversationID),
			zap.Error(err),
		)
	case len(audio) > 0:
		objs = append(objs, &archive.Object{
			Key:         archive.PostCallAudioKey(rec.CallerID, rec.ConversationID),
			Body:        audio,
			ContentType: archive.ContentTypeMP3,
			Metadata:    meta,
		})
	}

	return objs
}

// archive writes every object and reports whether all of them landed.
func (p *Pool) archive(ctx context.Context, objs ...*archive.Object) bool {
	if p.config.Sink == nil || len(objs) == 0 {
		return false
	}

	ok := true
	for _, obj := range objs {
		if err := p.putObject(ctx, obj); err != nil {
			ok = false
			p.logger.Warn("failed to archive object",
				zap.String("key", obj.Key),
				zap.Error(err),
			)
			continue
		}
		p.logger.Debug("archived object", zap.String("key", obj.Key))
	}
	return ok
}

func (p *Pool) putObject(ctx context.Context, obj *archive.Object) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.ArchiveTimeout)
	defer cancel()
	return p.config.Sink.Put(ctx, obj)
}

func (p *Pool) publish(ctx context.Context, event *eventstream.CallPersistedEvent) {
	if p.config.Publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	if err := p.config.Publisher.PublishCall(ctx, event); err != nil {
		p.logger.Warn("failed to publish call event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}
