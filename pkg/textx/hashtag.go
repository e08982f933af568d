// Package textx holds the pure text transforms applied to comment bodies:
// hashtag extraction and rewriting hashtags as markup links.
package textx

import (
	"fmt"
	"regexp"
)

// hashtagPattern matches a '#' followed by one or more word characters.
var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractHashtags returns all non-overlapping hashtag tokens in text, in
// order of appearance. Duplicates are preserved.
func ExtractHashtags(text string) []string {
	return hashtagPattern.FindAllString(text, -1)
}

// WrapHashtagsAsLinks replaces every hashtag token with an anchor element
// whose visible text and target path both carry the matched token,
// case-preserved. The replacement is a single pass over the input and does
// not re-scan inserted markup. It is NOT idempotent: running it over its
// own output would re-wrap the token nested inside the anchor, so callers
// must apply it exactly once per document.
func WrapHashtagsAsLinks(text string) string {
	return hashtagPattern.ReplaceAllStringFunc(text, toLink)
}

func toLink(hashtag string) string {
	return fmt.Sprintf(`<a class="hashLink" eventname="hashtag-to-search" `+
		`colorlink="#47CACC" href="/hashtag/%s">%s</a>`, hashtag, hashtag)
}
