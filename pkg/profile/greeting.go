package profile

import (
	"strings"
)

const (
	NewCallerGreeting     = "Hello! How may I help you today?"
	UnknownNameGreeting   = "Welcome back! I see you've called before. May I have your name, please?"
	greetingClosing       = "How can I assist you today?"
	maxGreetingClauses    = 2
	genericPreferenceText = "I've noted your preferences"
)

// accountClauses are checked in order against the account status cue.
var accountClauses = []struct {
	keyword string
	clause  string
}{
	{"premium", "I see you're one of our premium customers"},
	{"vip", "I see you're one of our VIP members"},
	{"gold", "I see you're a valued Gold member"},
	{"silver", "I see you're a valued Silver member"},
}

var interactionClauses = []struct {
	keyword string
	clause  string
}{
	{"inquiry", "I see you had an inquiry with us last time"},
	{"issue", "I hope your previous issue was resolved"},
}

var preferenceClauses = []struct {
	keywords []string
	clause   string
}{
	{[]string{"email"}, "I'll make sure to follow up by email"},
	{[]string{"text", "sms"}, "I'll make sure to follow up by text"},
	{[]string{"phone", "call"}, "I'll make sure to reach you by phone"},
}

// Compose builds the first message spoken to a caller.
func Compose(name string, isReturning bool, accountStatus, lastInteraction string, preferences []string) string {
	if !isReturning {
		return NewCallerGreeting
	}
	if name == "" {
		return UnknownNameGreeting
	}

	var clauses []string
	if c := accountClause(accountStatus); c != "" {
		clauses = append(clauses, c)
	}
	if c := interactionClause(lastInteraction); c != "" {
		clauses = append(clauses, c)
	}
	if len(clauses) < maxGreetingClauses && len(preferences) > 0 {
		clauses = append(clauses, preferenceClause(preferences))
	}

	var b strings.Builder
	b.WriteString("Hello ")
	b.WriteString(name)
	b.WriteString("! ")
	switch len(clauses) {
	case 0:
	case 1:
		b.WriteString(clauses[0])
		b.WriteString(". ")
	default:
		b.WriteString(clauses[0])
		b.WriteString(", and ")
		b.WriteString(clauses[1])
		b.WriteString(". ")
	}
	b.WriteString(greetingClosing)
	return b.String()
}

func accountClause(status string) string {
	status = strings.ToLower(status)
	if status == "" {
		return ""
	}
	for _, c := range accountClauses {
		if strings.Contains(status, c.keyword) {
			return c.clause
		}
	}
	return ""
}

func interactionClause(last string) string {
	last = strings.ToLower(last)
	if last == "" {
		return ""
	}
	for _, c := range interactionClauses {
		if strings.Contains(last, c.keyword) {
			return c.clause
		}
	}
	return ""
}

func preferenceClause(preferences []string) string {
	joined := strings.ToLower(strings.Join(preferences, " "))
	for _, c := range preferenceClauses {
		for _, kw := range c.keywords {
			if strings.Contains(joined, kw) {
				return c.clause
			}
		}
	}
	return genericPreferenceText
}
