package elevenlabs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// CriterionResult is the outcome of a single named evaluation criterion.
type CriterionResult struct {
	Result    string `json:"result"`
	Rationale string `json:"rationale"`
}

// EvaluationResult is either a single rationale or a set of named criteria.
type EvaluationResult struct {
	Rationale string                     `json:"rationale,omitempty"`
	Criteria  map[string]CriterionResult `json:"criteria,omitempty"`
}

// IsMulti reports whether the evaluation is in the named criteria form.
func (e *EvaluationResult) IsMulti() bool {
	return len(e.Criteria) > 0
}

// Flatten renders the evaluation as one text blob. Criteria are listed one
// per line as "name: result - rationale", ordered by name.
func (e *EvaluationResult) Flatten() string {
	if e == nil {
		return ""
	}

	if !e.IsMulti() {
		return e.Rationale
	}

	names := make([]string, 0, len(e.Criteria))
	for name := range e.Criteria {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		c := e.Criteria[name]
		lines = append(lines, fmt.Sprintf("%s: %s - %s", name, c.Result, c.Rationale))
	}

	return strings.Join(lines, "\n")
}

// parseEvaluation decodes either evaluation form. It returns nil for absent,
// null or empty evaluations and for values of an unexpected type.
func parseEvaluation(raw json.RawMessage) *EvaluationResult {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	if rawRationale, ok := fields["rationale"]; ok {
		var rationale string
		if err := json.Unmarshal(rawRationale, &rationale); err == nil {
			if rationale == "" {
				return nil
			}
			return &EvaluationResult{Rationale: rationale}
		}
	}

	criteria := make(map[string]CriterionResult, len(fields))
	for name, value := range fields {
		var c CriterionResult
		if err := json.Unmarshal(value, &c); err != nil {
			continue
		}
		if c.Result == "" && c.Rationale == "" {
			continue
		}
		criteria[name] = c
	}

	if len(criteria) == 0 {
		return nil
	}

	return &EvaluationResult{Criteria: criteria}
}
