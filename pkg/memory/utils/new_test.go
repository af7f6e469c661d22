package memoryutils_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/callmem/pkg/logger"
	"github.com/papercomputeco/callmem/pkg/memory/local"
	"github.com/papercomputeco/callmem/pkg/memory/mem0"
	"github.com/papercomputeco/callmem/pkg/memory/sqlite"
	memoryutils "github.com/papercomputeco/callmem/pkg/memory/utils"
)

var _ = Describe("NewDriver", func() {
	ctx := context.Background()

	It("defaults to the local driver", func() {
		d, err := memoryutils.NewDriver(ctx, &memoryutils.NewDriverOpts{Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&local.Driver{}))
	})

	It("builds a mem0 driver", func() {
		d, err := memoryutils.NewDriver(ctx, &memoryutils.NewDriverOpts{
			ProviderType: "mem0",
			Mem0APIKey:   "key",
			Logger:       logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&mem0.Driver{}))
	})

	It("surfaces a missing mem0 key", func() {
		_, err := memoryutils.NewDriver(ctx, &memoryutils.NewDriverOpts{
			ProviderType: "mem0",
			Logger:       logger.Nop(),
		})
		Expect(err).To(MatchError(ContainSubstring("mem0 API key is required")))
	})

	It("builds an in-memory sqlite driver", func() {
		d, err := memoryutils.NewDriver(ctx, &memoryutils.NewDriverOpts{
			ProviderType: "sqlite",
			Logger:       logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&sqlite.Driver{}))
		Expect(d.Close()).To(Succeed())
	})

	It("requires a postgres dsn", func() {
		_, err := memoryutils.NewDriver(ctx, &memoryutils.NewDriverOpts{ProviderType: "postgres"})
		Expect(err).To(MatchError(ContainSubstring("requires a dsn")))
	})

	It("rejects unknown providers", func() {
		_, err := memoryutils.NewDriver(ctx, &memoryutils.NewDriverOpts{ProviderType: "redis"})
		Expect(err).To(MatchError("unsupported memory provider: redis"))
	})
})
