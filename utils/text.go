package utils

import (
	"strings"

	"golang.org/x/net/html"
)

const DefaultExcerptLength = 150

// Slugify lowercases s and collapses every run of characters outside
// [a-z0-9] into a single hyphen, with no leading or trailing hyphen.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// StripTags returns the text content of an HTML fragment.
func StripTags(content string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(content))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the text so far is all we get
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Excerpt strips markup and keeps the first length characters, followed by "...".
func Excerpt(content string, length int) string {
	if length <= 0 {
		length = DefaultExcerptLength
	}

	text := []rune(StripTags(content))
	if len(text) > length {
		text = text[:length]
	}

	return string(text) + "..."
}
