package ai

import (
	"fmt"
	"regexp"
)

// locationPattern picks up "in <Place>" phrases where the place starts
// with an uppercase letter ("in Berlin", "in New York"). Raw pattern
// matching; mis-extractions are accepted.
var locationPattern = regexp.MustCompile(`\b[iI]n\s+(\p{Lu}[\p{L}\-']*(?:\s+\p{Lu}[\p{L}\-']*)*)`)

// annotateLocation prefixes the reply when the original user message
// mentions a location. Cosmetic only; never fails.
func annotateLocation(question, reply string) string {
	m := locationPattern.FindStringSubmatch(question)
	if m == nil {
		return reply
	}
	return fmt.Sprintf("In %s it is typically like this: %s", m[1], reply)
}
