package archiveutils_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/callmem/pkg/archive/inmemory"
	"github.com/papercomputeco/callmem/pkg/archive/nop"
	archiveutils "github.com/papercomputeco/callmem/pkg/archive/utils"
	"github.com/papercomputeco/callmem/pkg/logger"
)

var _ = Describe("NewSink", func() {
	ctx := context.Background()

	It("defaults to the nop sink", func() {
		sink, err := archiveutils.NewSink(ctx, &archiveutils.NewSinkOpts{Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
		Expect(sink).To(BeAssignableToTypeOf(&nop.Sink{}))
	})

	It("builds the in-memory sink", func() {
		sink, err := archiveutils.NewSink(ctx, &archiveutils.NewSinkOpts{ProviderType: "inmemory"})
		Expect(err).NotTo(HaveOccurred())
		Expect(sink).To(BeAssignableToTypeOf(&inmemory.Sink{}))
	})

	It("requires a bucket for s3", func() {
		_, err := archiveutils.NewSink(ctx, &archiveutils.NewSinkOpts{ProviderType: "s3", Logger: logger.Nop()})
		Expect(err).To(MatchError("s3 bucket is required"))
	})

	It("rejects unknown providers", func() {
		_, err := archiveutils.NewSink(ctx, &archiveutils.NewSinkOpts{ProviderType: "ftp"})
		Expect(err).To(MatchError("unsupported archive provider: ftp"))
	})
})
