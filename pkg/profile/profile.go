// Package profile builds a caller profile from stored memories and turns it
// into the personalization an agent receives at call start: a greeting, a
// context prompt and the dynamic variables of the conversation.
package profile

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/elevenlabs"
	"github.com/papercomputeco/callmem/pkg/memory"
)

// NewCallerSummary is the memory summary of a caller with no facts on file.
const NewCallerSummary = "New caller"

var (
	accountKeywords     = []string{"premium", "gold", "silver", "basic", "vip"}
	preferenceKeywords  = []string{"prefer", "likes", "wants", "needs"}
	interactionKeywords = []string{"last time", "previous", "inquiry", "issue", "request"}
)

// CallerProfile is what the store knows about a caller at call start.
type CallerProfile struct {
	CallerID        string
	IsReturning     bool
	Name            string
	AccountStatus   string
	LastInteraction string
	Preferences     []string
	Factual         []string
	Semantic        []string
	MemoryCount     int
}

// Builder reads a caller's memories and derives the profile.
type Builder struct {
	driver memory.Driver
	logger *zap.Logger
}

// NewBuilder creates a Builder over driver.
func NewBuilder(driver memory.Driver, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{driver: driver, logger: logger}
}

// Build fetches every memory of the caller and classifies it.
func (b *Builder) Build(ctx context.Context, callerID string) (*CallerProfile, error) {
	memories, err := b.driver.GetAll(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("fetching memories for caller: %w", err)
	}

	p := FromMemories(callerID, memories)

	b.logger.Debug("built caller profile",
		zap.String("caller_id", callerID),
		zap.Int("memory_count", p.MemoryCount),
		zap.Int("factual", len(p.Factual)),
		zap.Int("semantic", len(p.Semantic)),
		zap.Bool("named", p.Name != ""),
	)

	return p, nil
}

// FromMemories derives a profile from memories in store order. Memories
// without a semantic type tag count as factual.
func FromMemories(callerID string, memories []memory.Memory) *CallerProfile {
	p := &CallerProfile{
		CallerID:    callerID,
		MemoryCount: len(memories),
		IsReturning: len(memories) > 0,
	}

	texts := make([]string, 0, len(memories))
	for i := range memories {
		text := memories[i].Text
		if text == "" {
			continue
		}
		texts = append(texts, text)
		if memories[i].Kind() == memory.KindSemantic {
			p.Semantic = append(p.Semantic, text)
		} else {
			p.Factual = append(p.Factual, text)
		}
	}

	for _, fact := range p.Factual {
		if p.AccountStatus == "" && containsAny(fact, accountKeywords) {
			p.AccountStatus = fact
		}
		if containsAny(fact, preferenceKeywords) {
			p.Preferences = append(p.Preferences, fact)
		}
	}

	for _, conv := range p.Semantic {
		if containsAny(conv, interactionKeywords) {
			p.LastInteraction = conv
			break
		}
	}

	p.Name = ExtractName(texts)
	return p
}

// Summary is the first fact on file, or NewCallerSummary.
func (p *CallerProfile) Summary() string {
	if len(p.Factual) == 0 {
		return NewCallerSummary
	}
	return p.Factual[0]
}

// Greeting composes the caller's first message.
func (p *CallerProfile) Greeting() string {
	return Compose(p.Name, p.IsReturning, p.AccountStatus, p.LastInteraction, p.Preferences)
}

// DynamicVariables are the conversation variables sent back at call start.
func (p *CallerProfile) DynamicVariables() elevenlabs.DynamicVariables {
	returning := "no"
	if p.IsReturning {
		returning = "yes"
	}
	return elevenlabs.DynamicVariables{
		CallerID:        p.CallerID,
		MemoryCount:     strconv.Itoa(p.MemoryCount),
		MemorySummary:   p.Summary(),
		ReturningCaller: returning,
		CallerName:      p.Name,
	}
}

// Response assembles the full call-start response.
func (p *CallerProfile) Response() *elevenlabs.ClientDataResponse {
	return elevenlabs.NewClientDataResponse(p.DynamicVariables(), p.Greeting(), p.Prompt())
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
