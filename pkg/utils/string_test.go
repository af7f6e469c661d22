package utils

import (
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Truncate", func() {
	DescribeTable("ASCII input",
		func(in string, maxLen int, want string) {
			Expect(Truncate(in, maxLen)).To(Equal(want))
		},
		Entry("within the limit", "short", 10, "short"),
		Entry("exactly at the limit", "12345", 5, "12345"),
		Entry("over the limit", "this is a long string", 10, "this is a ..."),
		Entry("zero limit", "anything", 0, "..."),
	)

	It("backs off to a rune boundary", func() {
		// "José" is 5 bytes; byte 4 is inside "é".
		out := Truncate("José Núñez", 4)
		Expect(out).To(Equal("Jos..."))
		Expect(utf8.ValidString(out)).To(BeTrue())
	})
})

var _ = Describe("BuildInfo", func() {
	It("includes the version and sha", func() {
		Expect(BuildInfo()).To(Equal("callmem dev (HEAD, built dev)"))
	})
})
