package callmemcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	callmemcmder "github.com/papercomputeco/callmem/cmd/callmem"
)

var _ = Describe("NewCallmemCmd", func() {
	It("registers the subcommands", func() {
		cmd := callmemcmder.NewCallmemCmd()

		var names []string
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("serve", "search", "config", "version"))
	})

	It("exposes the global flags", func() {
		cmd := callmemcmder.NewCallmemCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})
})
