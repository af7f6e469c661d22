package mcp

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apisearch "github.com/papercomputeco/callmem/api/search"
	"github.com/papercomputeco/callmem/pkg/logger"
	"github.com/papercomputeco/callmem/pkg/profile"
	testutils "github.com/papercomputeco/callmem/pkg/utils/test"
)

var _ = Describe("MCP Server", func() {
	var driver *testutils.MockMemoryDriver

	BeforeEach(func() {
		driver = testutils.NewMockMemoryDriver()
	})

	Describe("NewServer", func() {
		It("returns an error when the searcher is nil", func() {
			_, err := NewServer(Config{Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("searcher is required")))
		})

		It("returns an error when the logger is nil", func() {
			_, err := NewServer(Config{Searcher: apisearch.NewSearcher(driver, 0, nil)})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("creates a server with valid config", func() {
			server, err := NewServer(Config{
				Searcher: apisearch.NewSearcher(driver, 0, nil),
				Builder:  profile.NewBuilder(driver, nil),
				Logger:   logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})

		It("creates an empty server when noop", func() {
			server, err := NewServer(Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})
	})
})
