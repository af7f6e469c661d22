package sqlite_test

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/callmem/pkg/memory"
	"github.com/papercomputeco/callmem/pkg/memory/sqlite"
)

func factual(owner, conversation, text string, at time.Time) *memory.Document {
	return &memory.Document{
		ID:             memory.DocumentID(owner, conversation, memory.KindFactual),
		OwnerID:        owner,
		Kind:           memory.KindFactual,
		Messages:       []memory.Message{{Role: "assistant", Content: text}},
		AgentID:        "agent_1",
		ConversationID: conversation,
		CreatedAt:      at,
	}
}

var _ = Describe("SQLite Driver", func() {
	var (
		driver *sqlite.Driver
		ctx    context.Context
		now    time.Time
	)

	BeforeEach(func() {
		var err error
		driver, err = sqlite.NewDriver(filepath.Join(GinkgoT().TempDir(), "memories.db"))
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		now = time.Unix(1735689600, 0)
	})

	AfterEach(func() {
		Expect(driver.Close()).To(Succeed())
	})

	It("round trips memories oldest first", func() {
		Expect(driver.Add(ctx, factual("+1", "conv_2", "second call", now.Add(time.Hour)))).To(Succeed())
		Expect(driver.Add(ctx, factual("+1", "conv_1", "first call", now))).To(Succeed())

		all, err := driver.GetAll(ctx, "+1")
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
		Expect(all[0].Text).To(Equal("first call"))
		Expect(all[0].Kind()).To(Equal(memory.KindFactual))
		Expect(all[0].Metadata).To(HaveKeyWithValue("conversation_id", "conv_1"))
		Expect(all[0].CreatedAt.Equal(now)).To(BeTrue())
	})

	It("is idempotent for a redelivered document", func() {
		doc := factual("+1", "conv_1", "summary", now)
		Expect(driver.Add(ctx, doc)).To(Succeed())
		Expect(driver.Add(ctx, doc)).To(Succeed())

		all, err := driver.GetAll(ctx, "+1")
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(1))
	})

	It("searches within one owner", func() {
		Expect(driver.Add(ctx, factual("+1", "conv_1", "billing question", now))).To(Succeed())
		Expect(driver.Add(ctx, factual("+2", "conv_2", "billing question", now))).To(Succeed())

		results, err := driver.Search(ctx, "billing", "+1", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].OwnerID).To(Equal("+1"))
	})

	It("returns nothing for an unknown owner", func() {
		all, err := driver.GetAll(ctx, "+9")
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(BeEmpty())
	})
})
