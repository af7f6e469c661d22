package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/callmem/pkg/eventstream"
	"github.com/papercomputeco/callmem/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		w *fakeWriter
		p *Publisher
	)

	BeforeEach(func() {
		w = &fakeWriter{}
		p = newPublisher(w, "calls", logger.Nop())
	})

	It("writes a JSON message keyed by caller", func() {
		event := eventstream.NewCallPersistedEvent(time.Unix(1735689600, 0))
		event.CallerID = "+1"
		event.ConversationID = "conv_1"

		Expect(p.PublishCall(context.Background(), event)).To(Succeed())
		Expect(w.msgs).To(HaveLen(1))

		msg := w.msgs[0]
		Expect(string(msg.Key)).To(Equal("+1"))
		Expect(msg.Headers).To(ContainElement(kafkago.Header{Key: "event_type", Value: []byte("callmem.call.persisted")}))

		var decoded eventstream.CallPersistedEvent
		Expect(json.Unmarshal(msg.Value, &decoded)).To(Succeed())
		Expect(decoded.ConversationID).To(Equal("conv_1"))
	})

	It("rejects nil events", func() {
		Expect(p.PublishCall(context.Background(), nil)).To(MatchError(eventstream.ErrNilEvent))
	})

	It("wraps writer errors", func() {
		boom := errors.New("broker down")
		w.err = boom
		err := p.PublishCall(context.Background(), eventstream.NewCallPersistedEvent(time.Now()))
		Expect(err).To(MatchError(boom))
		Expect(err.Error()).To(ContainSubstring("topic calls"))
	})

	It("closes the writer", func() {
		Expect(p.Close()).To(Succeed())
		Expect(w.closed).To(BeTrue())
	})

	It("requires brokers", func() {
		_, err := NewPublisher(Config{}, logger.Nop())
		Expect(err).To(MatchError("kafka brokers are required"))
	})
})
