package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/callmem/pkg/config"
)

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	writeConfig := func(data string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())
	}

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir, false)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file over the defaults", func() {
			writeConfig(`version = 0

[memory]
provider = "mem0"

[mem0]
org_id = "org_1"
timeout = "3s"

[eventstream]
provider = "kafka"
brokers = "a:9092, b:9092"
`)

			c, err := config.NewConfiger(tmpDir, false)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Memory.Provider).To(Equal("mem0"))
			Expect(cfg.Mem0.OrgID).To(Equal("org_1"))
			Expect(cfg.Mem0.Timeout).To(Equal("3s"))
			Expect(config.SplitList(cfg.EventStream.Brokers)).To(Equal([]string{"a:9092", "b:9092"}))

			// Unset fields keep their defaults.
			defaults := config.NewDefaultConfig()
			Expect(cfg.Memory.SearchLimit).To(Equal(defaults.Memory.SearchLimit))
			Expect(cfg.API.Listen).To(Equal(defaults.API.Listen))
			Expect(cfg.API.MCP).To(BeTrue())
			Expect(cfg.Worker.QueueSize).To(Equal(uint(256)))
		})

		It("returns error for malformed TOML", func() {
			writeConfig("this is not valid toml [[[")

			c, err := config.NewConfiger(tmpDir, false)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("parsing config TOML")))
		})

		It("returns error for unsupported config version", func() {
			writeConfig("version = 99\n")

			c, err := config.NewConfiger(tmpDir, false)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 99")))
		})
	})

	Describe("SaveConfig", func() {
		It("round trips every field", func() {
			c, err := config.NewConfiger(tmpDir, false)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.ElevenLabs.HMACKey = "secret"
			cfg.Memory.Provider = "qdrant"
			cfg.Qdrant.Host = "qdrant.local"
			cfg.Archive.Provider = "s3"
			cfg.Archive.Bucket = "calls"
			cfg.API.MCP = false
			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(MatchError("cannot save nil config"))
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir, false)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets and gets string keys", func() {
			Expect(c.SetConfigValue("archive.bucket", "calls")).To(Succeed())
			Expect(c.GetConfigValue("archive.bucket")).To(Equal("calls"))
		})

		It("sets numeric and bool keys", func() {
			Expect(c.SetConfigValue("memory.search_limit", "5")).To(Succeed())
			Expect(c.SetConfigValue("worker.count", "8")).To(Succeed())
			Expect(c.SetConfigValue("api.mcp", "false")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Memory.SearchLimit).To(Equal(5))
			Expect(cfg.Worker.Count).To(Equal(uint(8)))
			Expect(cfg.API.MCP).To(BeFalse())
		})

		It("validates durations", func() {
			Expect(c.SetConfigValue("mem0.timeout", "7")).To(Succeed())
			Expect(c.SetConfigValue("mem0.timeout", "soon")).To(MatchError(ContainSubstring("invalid value for mem0.timeout")))
		})

		It("returns error for invalid numbers", func() {
			Expect(c.SetConfigValue("worker.count", "many")).To(MatchError(ContainSubstring("invalid value for worker.count")))
		})

		It("returns error for unknown keys", func() {
			Expect(c.SetConfigValue("proxy.upstream", "x")).To(MatchError(ContainSubstring("unknown config key")))
			_, err := c.GetConfigValue("proxy.upstream")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("returns defaults when no file exists", func() {
			Expect(c.GetConfigValue("api.listen")).To(Equal(":8080"))
			Expect(c.GetConfigValue("mem0.api_key")).To(Equal(""))
		})
	})

	Describe("DisplayValue", func() {
		It("hides secrets that are set", func() {
			cfg := config.NewDefaultConfig()
			cfg.Mem0.APIKey = "m0-key"
			Expect(config.DisplayValue(cfg, "mem0.api_key")).To(Equal("********"))
			Expect(config.DisplayValue(cfg, "elevenlabs.hmac_key")).To(Equal(""))
			Expect(config.DisplayValue(cfg, "api.listen")).To(Equal(":8080"))
		})
	})

	Describe("ValidConfigKeys", func() {
		It("lists every known key once", func() {
			keys := config.ValidConfigKeys()
			Expect(keys).To(ContainElements("api.listen", "mem0.api_key", "archive.bucket", "worker.queue_size"))
			for _, k := range keys {
				Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
			}
			Expect(config.IsValidConfigKey("storage.sqlite_path")).To(BeFalse())
		})
	})
})

var _ = Describe("ParseDuration", func() {
	DescribeTable("inputs",
		func(in string, expected time.Duration) {
			d, err := config.ParseDuration(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(expected))
		},
		Entry("go duration", "5s", 5*time.Second),
		Entry("bare seconds", "10", 10*time.Second),
		Entry("empty", "", time.Duration(0)),
	)

	It("rejects garbage", func() {
		_, err := config.ParseDuration("later")
		Expect(err).To(HaveOccurred())
	})
})
