package elevenlabs_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/callmem/pkg/elevenlabs"
)

var _ = Describe("EvaluationResult", func() {
	It("flattens criteria sorted by name", func() {
		e := &elevenlabs.EvaluationResult{Criteria: map[string]elevenlabs.CriterionResult{
			"resolved":  {Result: "success", Rationale: "Issue fixed"},
			"courteous": {Result: "success", Rationale: "Friendly tone"},
		}}
		Expect(e.Flatten()).To(Equal("courteous: success - Friendly tone\nresolved: success - Issue fixed"))
	})

	It("flattens a single rationale", func() {
		e := &elevenlabs.EvaluationResult{Rationale: "Good call"}
		Expect(e.Flatten()).To(Equal("Good call"))
	})

	It("flattens nil to empty", func() {
		var e *elevenlabs.EvaluationResult
		Expect(e.Flatten()).To(BeEmpty())
	})
})
