package servecmder

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/papercomputeco/callmem/pkg/config"
)

var _ = Describe("NewServeCmd", func() {
	It("registers the serve flags", func() {
		cmd := NewServeCmd()
		for _, name := range []string{"listen", "memory-provider", "sqlite", "postgres-dsn", "archive-provider", "workers", "json-logs"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})

	It("rejects positional arguments", func() {
		cmd := NewServeCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})
})

var _ = Describe("resolveSettings", func() {
	var v *viper.Viper

	BeforeEach(func() {
		var err error
		GinkgoT().Setenv("HOME", GinkgoT().TempDir())
		v, err = config.InitViper(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires the hmac key", func() {
		v.Set("elevenlabs.hmac_key", "")
		_, err := resolveSettings(v)
		Expect(err).To(MatchError(ContainSubstring("elevenlabs.hmac_key is required")))
	})

	It("resolves values and durations", func() {
		v.Set("elevenlabs.hmac_key", "secret")
		v.Set("memory.write_timeout", "15")
		v.Set("eventstream.brokers", "a:9092, b:9092")

		s, err := resolveSettings(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.hmacKey).To(Equal("secret"))
		Expect(s.writeTimeout).To(Equal(15 * time.Second))
		Expect(s.eventBrokers).To(Equal([]string{"a:9092", "b:9092"}))
		Expect(s.searchLimit).To(Equal(3))
	})

	It("resolves a default sqlite path for the sqlite provider", func() {
		v.Set("elevenlabs.hmac_key", "secret")
		v.Set("memory.provider", "sqlite")
		v.Set("memory.sqlite_path", "/data/memories.db")

		s, err := resolveSettings(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.sqlitePath).To(Equal("/data/memories.db"))
	})

	It("reports an invalid duration", func() {
		v.Set("elevenlabs.hmac_key", "secret")
		v.Set("archive.timeout", "soon")
		_, err := resolveSettings(v)
		Expect(err).To(MatchError(ContainSubstring("invalid archive.timeout")))
	})
})
