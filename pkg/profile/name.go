package profile

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nameToken matches one to three capitalized words. It stays case
// sensitive while the cue phrases around it do not.
const nameToken = `([A-Z][a-zA-Z]*(?:[ \t]+[A-Z][a-zA-Z]*){0,2})`

// nameRule is one phrasing that can introduce a caller's name.
type nameRule struct {
	pattern *regexp.Regexp
	valid   func(string) bool
}

// nameRules are tried in order. The first rule that yields a valid
// candidate in any memory wins.
var nameRules = []nameRule{
	{pattern: regexp.MustCompile(`(?i:\bmy name is)\s+` + nameToken), valid: validName},
	{pattern: regexp.MustCompile(`(?i:\buser(?:'s)? name is)\s+` + nameToken), valid: validName},
	{pattern: regexp.MustCompile(`(?i:\bname is)\s+` + nameToken), valid: validName},
	{pattern: regexp.MustCompile(`(?i:\bcustomer name:)\s*` + nameToken), valid: validName},
	{pattern: regexp.MustCompile(`(?i:\bcalled)\s+` + nameToken), valid: validName},
	{pattern: regexp.MustCompile(nameToken + `\s+(?i:is the (?:user|customer|caller)\b)`), valid: validName},
	{pattern: regexp.MustCompile(`(?i:\buser)\s+` + nameToken), valid: validName},
	{pattern: regexp.MustCompile(`(?i:\bcustomer)\s+` + nameToken), valid: validName},
}

var nameExclusions = map[string]struct{}{
	"wants":    {},
	"needs":    {},
	"help":     {},
	"account":  {},
	"update":   {},
	"email":    {},
	"phone":    {},
	"address":  {},
	"user":     {},
	"customer": {},
}

var lettersAndSpaces = regexp.MustCompile(`^[A-Za-z ]+$`)

var titleCaser = cases.Title(language.English)

// ExtractName returns the first caller name found in texts, title cased,
// or "" when none of the texts names the caller.
func ExtractName(texts []string) string {
	for _, rule := range nameRules {
		for _, text := range texts {
			for _, m := range rule.pattern.FindAllStringSubmatch(text, -1) {
				candidate := strings.Join(strings.Fields(m[1]), " ")
				if rule.valid(candidate) {
					return titleCaser.String(candidate)
				}
			}
		}
	}
	return ""
}

func validName(candidate string) bool {
	if len(candidate) < 2 || len(candidate) > 30 {
		return false
	}
	if !lettersAndSpaces.MatchString(candidate) {
		return false
	}
	if len(strings.Fields(candidate)) > 3 {
		return false
	}
	_, excluded := nameExclusions[strings.ToLower(candidate)]
	return !excluded
}
