package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apisearch "github.com/papercomputeco/callmem/api/search"
	"github.com/papercomputeco/callmem/pkg/logger"
	"github.com/papercomputeco/callmem/pkg/memory"
	"github.com/papercomputeco/callmem/pkg/profile"
	testutils "github.com/papercomputeco/callmem/pkg/utils/test"
)

func resultText(result *mcp.CallToolResult) string {
	ExpectWithOffset(1, result.Content).To(HaveLen(1))
	text, ok := result.Content[0].(*mcp.TextContent)
	ExpectWithOffset(1, ok).To(BeTrue())
	return text.Text
}

var _ = Describe("Memory tools", func() {
	var (
		driver *testutils.MockMemoryDriver
		server *Server
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = testutils.NewMockMemoryDriver()
		var err error
		server, err = NewServer(Config{
			Searcher: apisearch.NewSearcher(driver, 3, logger.Nop()),
			Builder:  profile.NewBuilder(driver, logger.Nop()),
			Logger:   logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Describe("search_caller_memories", func() {
		It("returns matching memories", func() {
			created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
			m := testutils.NewMemory("Caller asked about a refund", memory.KindFactual)
			m.ID = "mem-1"
			m.Score = 0.8
			m.CreatedAt = created
			m.Metadata[memory.MetaConversationID] = "conv_1"
			driver.SearchResults = []memory.Memory{m, testutils.NewMemory("untyped note", "")}

			result, output, err := server.handleSearch(ctx, nil, SearchInput{CallerID: "+1", Query: "refund"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Count).To(Equal(2))
			Expect(output.Memories[0]).To(Equal(MemoryResult{
				ID:             "mem-1",
				Type:           "factual",
				Text:           "Caller asked about a refund",
				ConversationID: "conv_1",
				Score:          0.8,
				CreatedAt:      "2025-03-01T12:00:00Z",
			}))
			Expect(output.Memories[1].Type).To(Equal("factual"))

			var decoded SearchOutput
			Expect(json.Unmarshal([]byte(resultText(result)), &decoded)).To(Succeed())
			Expect(decoded).To(Equal(output))
			Expect(driver.LastLimit).To(Equal(3))
		})

		It("reports a missing query as a tool error", func() {
			result, _, err := server.handleSearch(ctx, nil, SearchInput{CallerID: "+1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(resultText(result)).To(ContainSubstring("missing query"))
		})

		It("reports driver failures as a tool error", func() {
			driver.FailSearch = true
			result, _, err := server.handleSearch(ctx, nil, SearchInput{CallerID: "+1", Query: "q"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})

	Describe("caller_profile", func() {
		It("describes a returning caller", func() {
			driver.Memories = []memory.Memory{
				testutils.NewMemory("The user's name is Sarah Lee", memory.KindFactual),
				testutils.NewMemory("Caller prefers email", memory.KindFactual),
			}

			result, output, err := server.handleProfile(ctx, nil, ProfileInput{CallerID: "+1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.ReturningCaller).To(BeTrue())
			Expect(output.Name).To(Equal("Sarah Lee"))
			Expect(output.MemoryCount).To(Equal(2))
			Expect(output.Preferences).To(Equal([]string{"Caller prefers email"}))
			Expect(output.Greeting).To(HavePrefix("Hello Sarah Lee!"))
		})

		It("describes a new caller", func() {
			_, output, err := server.handleProfile(ctx, nil, ProfileInput{CallerID: "+1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.ReturningCaller).To(BeFalse())
			Expect(output.Summary).To(Equal(profile.NewCallerSummary))
			Expect(output.Preferences).To(BeEmpty())
		})

		It("requires a caller id", func() {
			result, _, err := server.handleProfile(ctx, nil, ProfileInput{CallerID: "  "})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(driver.GetAllCalls).To(BeZero())
		})

		It("reports store failures as a tool error", func() {
			driver.FailGetAll = true
			result, _, err := server.handleProfile(ctx, nil, ProfileInput{CallerID: "+1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})
})
