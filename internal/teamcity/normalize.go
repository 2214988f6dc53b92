package teamcity

import (
	"regexp"
	"strings"
)

// stripper removes characters that break a single-line, quote-delimited service message.
var stripper = strings.NewReplacer("\t", "", "\n", "", "\r", "", "'", "")

// separator matches a semicolon with any spaces around it.
var separator = regexp.MustCompile(` *; *`)

// Normalize makes scanner-supplied free text safe to embed in a service message attribute.
// Tabs, line breaks and single quotes are removed, and spaces around semicolons are dropped.
// Normalize is idempotent.
func Normalize(text string) string {
	return separator.ReplaceAllString(stripper.Replace(text), ";")
}
