package profile_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/callmem/pkg/profile"
)

var _ = Describe("Compose", func() {
	It("greets new callers generically", func() {
		Expect(profile.Compose("Sarah", false, "Premium", "issue", []string{"email"})).
			To(Equal("Hello! How may I help you today?"))
	})

	It("asks returning callers without a name for it", func() {
		Expect(profile.Compose("", true, "Premium", "", nil)).
			To(Equal("Welcome back! I see you've called before. May I have your name, please?"))
	})

	It("mentions premium status", func() {
		greeting := profile.Compose("Sarah", true, "Premium account holder", "", nil)
		Expect(greeting).To(ContainSubstring("Hello Sarah!"))
		Expect(greeting).To(ContainSubstring("premium customer"))
		Expect(greeting).To(HaveSuffix("How can I assist you today?"))
		Expect(greeting).To(Equal("Hello Sarah! I see you're one of our premium customers. How can I assist you today?"))
	})

	It("greets by name with no clauses", func() {
		Expect(profile.Compose("Sarah", true, "", "", nil)).
			To(Equal("Hello Sarah! How can I assist you today?"))
	})

	It("joins two clauses", func() {
		Expect(profile.Compose("Tom", true, "Gold tier", "Had an issue with billing", nil)).
			To(Equal("Hello Tom! I see you're a valued Gold member, and I hope your previous issue was resolved. How can I assist you today?"))
	})

	It("drops the preference clause when two clauses are chosen", func() {
		greeting := profile.Compose("Tom", true, "VIP", "inquiry about plans", []string{"prefers email"})
		Expect(greeting).To(Equal("Hello Tom! I see you're one of our VIP members, and I see you had an inquiry with us last time. How can I assist you today?"))
	})

	It("adds a preference clause when there is room", func() {
		Expect(profile.Compose("Ana", true, "Silver", "", []string{"Prefers email updates"})).
			To(Equal("Hello Ana! I see you're a valued Silver member, and I'll make sure to follow up by email. How can I assist you today?"))
		Expect(profile.Compose("Ana", true, "", "", []string{"Likes quiet mornings"})).
			To(Equal("Hello Ana! I've noted your preferences. How can I assist you today?"))
	})

	It("ranks premium above vip", func() {
		Expect(profile.Compose("Ana", true, "vip and premium", "", nil)).
			To(ContainSubstring("premium customers"))
	})

	It("has no account clause for basic", func() {
		Expect(profile.Compose("Ana", true, "basic plan", "", nil)).
			To(Equal("Hello Ana! How can I assist you today?"))
	})
})
