// Package htmltext derives the canonical plain text of rich entry markup.
// The result is what change detection and mood analysis operate on.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Extract strips markup from s and returns the remaining text.
// <script> and <style> elements are dropped together with their contents;
// every other tag is removed while the text between tags is kept as-is,
// whitespace included. Malformed or unbalanced markup degrades best-effort:
// the tokenizer never fails, so Extract is total over arbitrary input.
func Extract(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer bailout on garbage input; either way
			// we return what has been collected so far.
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if isIgnoredElement(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isIgnoredElement(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isIgnoredElement(name string) bool {
	return name == "script" || name == "style"
}
