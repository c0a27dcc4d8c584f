package rewrite

import "strings"

const (
	headOpen  = "<head>"
	bodyClose = "</body>"
)

// Inject places head content directly after the first <head> and body
// content directly before the last </body>. Missing anchors are skipped.
func Inject(html, head, body string) string {
	if head != "" {
		if i := strings.Index(html, headOpen); i >= 0 {
			i += len(headOpen)
			html = html[:i] + head + html[i:]
		}
	}
	if body != "" {
		if i := strings.LastIndex(html, bodyClose); i >= 0 {
			html = html[:i] + body + html[i:]
		}
	}
	return html
}

// Wrap encloses a rendered fragment in a minimal document shell
func Wrap(fragment string) string {
	return "<html><head></head><body>" + fragment + "</body></html>"
}
