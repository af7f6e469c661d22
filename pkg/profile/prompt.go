package profile

import (
	"fmt"
	"strings"
)

const (
	maxPromptFacts      = 5
	maxPromptHighlights = 3

	newCallerPrompt    = "NEW CALLER: This is their first interaction. Focus on building rapport and gathering information."
	promptInstructions = "Instructions: Use this context to personalize your responses. Reference past conversations naturally."
)

// Prompt renders the caller context handed to the agent as a prompt
// override.
func (p *CallerProfile) Prompt() string {
	if !p.IsReturning {
		return newCallerPrompt
	}

	lines := []string{
		"CALLER CONTEXT:",
		fmt.Sprintf("This caller has %d previous interactions.", p.MemoryCount),
	}
	if p.Name != "" {
		lines = append(lines, "Caller name: "+p.Name)
	}
	if p.AccountStatus != "" {
		lines = append(lines, "Account status: "+p.AccountStatus)
	}
	if p.LastInteraction != "" {
		lines = append(lines, "Last interaction: "+p.LastInteraction)
	}
	if len(p.Preferences) > 0 {
		lines = append(lines, "Preferences: "+strings.Join(p.Preferences, "; "))
	}

	if len(p.Factual) > 0 {
		lines = append(lines, "Known information:")
		for _, fact := range head(p.Factual, maxPromptFacts) {
			lines = append(lines, "- "+fact)
		}
	}
	if len(p.Semantic) > 0 {
		lines = append(lines, "Previous conversation highlights:")
		for _, conv := range head(p.Semantic, maxPromptHighlights) {
			lines = append(lines, "- "+conv)
		}
	}

	lines = append(lines, "", promptInstructions)
	return strings.Join(lines, "\n")
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
