package xml

import (
	"regexp"
	"strings"
)

var (
	xmlDeclRe     = regexp.MustCompile(`<\?xml[^>]*\?>`)
	betweenTagsRe = regexp.MustCompile(`>\s+<`)
	selfClosingRe = regexp.MustCompile(`\s+/>`)
	runOfSpaceRe  = regexp.MustCompile(`\s+`)
)

// normalizeXML removes the declaration and whitespace between elements so that
// serialized documents can be compared regardless of indentation
func normalizeXML(s string) string {
	s = xmlDeclRe.ReplaceAllString(s, "")
	s = betweenTagsRe.ReplaceAllString(s, "><")
	s = runOfSpaceRe.ReplaceAllString(s, " ")
	s = selfClosingRe.ReplaceAllString(s, "/>")
	return strings.TrimSpace(s)
}
