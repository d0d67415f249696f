package sanitization

import "regexp"

type (
	// Sanitizer applies its rules in order, then truncates to maxLength when
	// maxLength is positive. Rules re-run after a truncation, since cutting a
	// string can expose a suffix the rules forbid (e.g. a trailing hyphen).
	Sanitizer struct {
		rules     []Rule
		maxLength int
	}

	Rule struct {
		Pattern     *regexp.Regexp
		Replacement string
	}
)

func NewSanitizer(rules []Rule, maxLength int) *Sanitizer {
	return &Sanitizer{rules: rules, maxLength: maxLength}
}

func (s *Sanitizer) Apply(input string) string {
	output := input
	for {
		for _, rule := range s.rules {
			output = rule.Pattern.ReplaceAllString(output, rule.Replacement)
		}
		if s.maxLength <= 0 || len(output) <= s.maxLength {
			return output
		}
		output = output[:s.maxLength]
	}
}
