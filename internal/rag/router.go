package rag

import (
	"regexp"
	"strings"
)

var comparisonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`compare`),
	regexp.MustCompile(`versus`),
	regexp.MustCompile(`vs`),
	regexp.MustCompile(`difference between`),
	regexp.MustCompile(`compare.*between`),
	regexp.MustCompile(`how.*compare`),
	regexp.MustCompile(`which.*higher`),
	regexp.MustCompile(`which.*lower`),
	regexp.MustCompile(`differences`),
}

// IsComparisonQuestion reports whether the question asks to compare entities
func IsComparisonQuestion(question string) bool {
	q := strings.ToLower(question)
	for _, re := range comparisonPatterns {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}
