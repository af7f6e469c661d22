package nop_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/papercomputeco/callmem/pkg/eventstream"
	"github.com/papercomputeco/callmem/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	It("returns ErrNilEvent for nil events", func() {
		err := nop.NewPublisher(nil).PublishCall(context.Background(), nil)
		Expect(err).To(MatchError(eventstream.ErrNilEvent))
	})

	It("logs and discards events", func() {
		core, logs := observer.New(zap.DebugLevel)
		p := nop.NewPublisher(zap.New(core))

		event := eventstream.NewCallPersistedEvent(time.Now())
		event.ConversationID = "conv_1"
		Expect(p.PublishCall(context.Background(), event)).To(Succeed())
		Expect(p.Close()).To(Succeed())

		entries := logs.FilterMessage("event stream disabled, call event discarded").All()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].ContextMap()).To(HaveKeyWithValue("conversation_id", "conv_1"))
	})
})
