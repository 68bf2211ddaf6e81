package pdf

import (
	"fmt"
	"strings"
)

// markdownTextPlaceholder stands in for links whose annotation has no
// display text, so every rendered line stays a well-formed markdown link.
const markdownTextPlaceholder = "link"

// RenderMarkdown formats the link records as markdown, one line per record
// with a non-empty URI, in the order the records were emitted. Internal
// references and other non-URI records produce no line. Pure formatting,
// no state.
func RenderMarkdown(records []LinkRecord) string {
	var sb strings.Builder
	for _, rec := range records {
		if rec.URI == "" {
			continue
		}
		text := rec.Text
		if text == "" {
			text = markdownTextPlaceholder
		}
		fmt.Fprintf(&sb, "- [%s](%s) (page %d)\n", text, rec.URI, rec.PageNumber)
	}
	return sb.String()
}
