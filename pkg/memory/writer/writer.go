// Package writer turns a normalized call record into caller memories.
//
// Each call yields at most two documents, a factual one built from the call
// analysis and a semantic one built from the transcript. The writes are
// independent: each runs under its own timeout, is attempted exactly once,
// and a failure is logged without affecting the other.
package writer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/elevenlabs"
	"github.com/papercomputeco/callmem/pkg/memory"
)

// DefaultTimeout bounds a single memory write.
const DefaultTimeout = 10 * time.Second

const evaluationLabel = "Evaluation: "

// Config is the configuration for a Writer.
type Config struct {
	Driver memory.Driver

	// Timeout bounds each write. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Now stamps documents. Defaults to time.Now.
	Now func() time.Time

	Logger *zap.Logger
}

// Writer persists call records into a memory.Driver.
type Writer struct {
	driver  memory.Driver
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// Result reports which documents were stored.
type Result struct {
	FactualStored  bool
	SemanticStored bool
}

// New creates a Writer.
func New(c Config) *Writer {
	w := &Writer{
		driver:  c.Driver,
		timeout: c.Timeout,
		now:     c.Now,
		logger:  c.Logger,
	}
	if w.timeout <= 0 {
		w.timeout = DefaultTimeout
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// Persist writes the factual and semantic documents of a call. It never
// fails; the Result tells the caller what landed.
func (w *Writer) Persist(ctx context.Context, rec *elevenlabs.CallRecord) Result {
	var res Result
	if rec == nil || rec.CallerID == "" {
		w.logger.Error("refusing to persist call without caller id")
		return res
	}

	created := w.now().UTC()

	if doc := FactualDocument(rec, created); doc != nil {
		res.FactualStored = w.write(ctx, doc)
	} else {
		w.logger.Debug("no factual content for call",
			zap.String("conversation_id", rec.ConversationID),
		)
	}

	if doc := SemanticDocument(rec, created); doc != nil {
		res.SemanticStored = w.write(ctx, doc)
	} else {
		w.logger.Debug("no transcript for call",
			zap.String("conversation_id", rec.ConversationID),
		)
	}

	return res
}

func (w *Writer) write(ctx context.Context, doc *memory.Document) (stored bool) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	// A panicking driver must not take the sibling write down with it.
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("memory driver panicked",
				zap.String("caller_id", doc.OwnerID),
				zap.String("conversation_id", doc.ConversationID),
				zap.String("type", string(doc.Kind)),
				zap.Any("panic", r),
			)
			stored = false
		}
	}()

	if err := w.driver.Add(ctx, doc); err != nil {
		w.logger.Error("failed to store memory",
			zap.String("caller_id", doc.OwnerID),
			zap.String("conversation_id", doc.ConversationID),
			zap.String("type", string(doc.Kind)),
			zap.Error(err),
		)
		return false
	}

	w.logger.Info("stored memory",
		zap.String("caller_id", doc.OwnerID),
		zap.String("conversation_id", doc.ConversationID),
		zap.String("type", string(doc.Kind)),
		zap.Int("messages", len(doc.Messages)),
	)
	return true
}

// FactualContent joins the summary with the flattened evaluation.
func FactualContent(summary string, eval *elevenlabs.EvaluationResult) string {
	content := strings.TrimSpace(summary)
	flat := eval.Flatten()
	if flat == "" {
		return content
	}
	if content == "" {
		return evaluationLabel + flat
	}
	return content + "\n\n" + evaluationLabel + flat
}

// FactualDocument builds the factual document of a call, or nil when the
// call has neither summary nor evaluation.
func FactualDocument(rec *elevenlabs.CallRecord, created time.Time) *memory.Document {
	content := FactualContent(rec.Summary, rec.Evaluation)
	if content == "" {
		return nil
	}
	return newDocument(rec, memory.KindFactual, []memory.Message{
		{Role: elevenlabs.RoleAssistant, Content: content},
	}, created)
}

// SemanticDocument builds the transcript document of a call, or nil when
// the transcript is empty.
func SemanticDocument(rec *elevenlabs.CallRecord, created time.Time) *memory.Document {
	if len(rec.Transcript) == 0 {
		return nil
	}
	msgs := make([]memory.Message, 0, len(rec.Transcript))
	for _, u := range rec.Transcript {
		msgs = append(msgs, memory.Message{Role: u.Role, Content: u.Content})
	}
	return newDocument(rec, memory.KindSemantic, msgs, created)
}

func newDocument(rec *elevenlabs.CallRecord, kind memory.Kind, msgs []memory.Message, created time.Time) *memory.Document {
	return &memory.Document{
		ID:              memory.DocumentID(rec.CallerID, rec.ConversationID, kind),
		OwnerID:         rec.CallerID,
		Kind:            kind,
		Messages:        msgs,
		AgentID:         rec.AgentID,
		ConversationID:  rec.ConversationID,
		DurationSeconds: rec.DurationSeconds,
		CreatedAt:       created,
	}
}
