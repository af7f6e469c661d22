package profile_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/callmem/pkg/logger"
	"github.com/papercomputeco/callmem/pkg/memory"
	"github.com/papercomputeco/callmem/pkg/profile"
	testutils "github.com/papercomputeco/callmem/pkg/utils/test"
)

var _ = Describe("FromMemories", func() {
	It("builds a new caller profile from nothing", func() {
		p := profile.FromMemories("+1", nil)
		Expect(p.IsReturning).To(BeFalse())
		Expect(p.Summary()).To(Equal("New caller"))
		Expect(p.Greeting()).To(Equal("Hello! How may I help you today?"))
		Expect(p.Prompt()).To(HavePrefix("NEW CALLER:"))

		vars := p.DynamicVariables()
		Expect(vars.ReturningCaller).To(Equal("no"))
		Expect(vars.MemoryCount).To(Equal("0"))
		Expect(vars.CallerName).To(BeEmpty())
	})

	It("partitions memories and picks cues", func() {
		p := profile.FromMemories("+1", []memory.Memory{
			testutils.NewMemory("The user's name is Sarah Lee", memory.KindFactual),
			testutils.NewMemory("user: I had an issue with my bill last time", memory.KindSemantic),
			testutils.NewMemory("Premium account holder", ""),
			testutils.NewMemory("", memory.KindFactual),
			testutils.NewMemory("Caller prefers email", "unknown"),
			testutils.NewMemory("Gold upgrade offered", memory.KindFactual),
		})

		Expect(p.IsReturning).To(BeTrue())
		Expect(p.MemoryCount).To(Equal(6))
		Expect(p.Factual).To(Equal([]string{
			"The user's name is Sarah Lee",
			"Premium account holder",
			"Caller prefers email",
			"Gold upgrade offered",
		}))
		Expect(p.Semantic).To(HaveLen(1))
		Expect(p.Name).To(Equal("Sarah Lee"))
		Expect(p.AccountStatus).To(Equal("Premium account holder"))
		Expect(p.LastInteraction).To(ContainSubstring("issue"))
		Expect(p.Preferences).To(Equal([]string{"Caller prefers email"}))
		Expect(p.Summary()).To(Equal("The user's name is Sarah Lee"))

		Expect(p.Greeting()).To(Equal(
			"Hello Sarah Lee! I see you're one of our premium customers, and I hope your previous issue was resolved. How can I assist you today?",
		))
	})

	It("renders the caller context prompt", func() {
		memories := make([]memory.Memory, 0, 8)
		for _, t := range []string{"f1", "f2", "f3", "f4", "f5", "f6"} {
			memories = append(memories, testutils.NewMemory(t, memory.KindFactual))
		}
		for _, t := range []string{"s1", "s2", "s3", "s4"} {
			memories = append(memories, testutils.NewMemory(t, memory.KindSemantic))
		}

		prompt := profile.FromMemories("+1", memories).Prompt()
		Expect(prompt).To(HavePrefix("CALLER CONTEXT:\nThis caller has 10 previous interactions."))
		Expect(prompt).To(ContainSubstring("Known information:\n- f1\n- f2\n- f3\n- f4\n- f5\n"))
		Expect(prompt).NotTo(ContainSubstring("- f6"))
		Expect(prompt).To(ContainSubstring("Previous conversation highlights:\n- s1\n- s2\n- s3\n"))
		Expect(prompt).NotTo(ContainSubstring("- s4"))
		Expect(prompt).To(HaveSuffix("\n\nInstructions: Use this context to personalize your responses. Reference past conversations naturally."))
	})

	It("assembles the call-start response", func() {
		resp := profile.FromMemories("+1", []memory.Memory{
			testutils.NewMemory("my name is Joe", memory.KindFactual),
		}).Response()

		Expect(resp.Type).To(Equal("conversation_initiation_client_data"))
		Expect(resp.DynamicVariables.CallerName).To(Equal("Joe"))
		Expect(resp.DynamicVariables.ReturningCaller).To(Equal("yes"))
		Expect(resp.DynamicVariables.MemoryCount).To(Equal("1"))
		Expect(resp.ConversationConfigOverride.Agent.FirstMessage).To(Equal("Hello Joe! How can I assist you today?"))
		Expect(strings.HasPrefix(resp.ConversationConfigOverride.Agent.Prompt.Prompt, "CALLER CONTEXT:")).To(BeTrue())
	})
})

var _ = Describe("Builder", func() {
	It("reads every memory of the caller", func() {
		driver := testutils.NewMockMemoryDriver()
		driver.Memories = []memory.Memory{testutils.NewMemory("VIP member", memory.KindFactual)}

		p, err := profile.NewBuilder(driver, logger.Nop()).Build(context.Background(), "+1")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.AccountStatus).To(Equal("VIP member"))
		Expect(driver.GetAllCalls).To(Equal(1))
	})

	It("wraps store failures", func() {
		driver := testutils.NewMockMemoryDriver()
		driver.FailGetAll = true

		_, err := profile.NewBuilder(driver, logger.Nop()).Build(context.Background(), "+1")
		Expect(err).To(MatchError(memory.ErrNotConfigured))
	})
})
