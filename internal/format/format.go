// Package format renders stored post bodies as safe HTML summaries.
package format

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Body formats stored with posts.
const (
	HTML     = "html"
	Wysiwyg  = "wysiwyg"
	Text     = "text"
	TextEx   = "textex"
	Markdown = "markdown"
)

var (
	// allowedTags are emitted as-is (attributes filtered).
	allowedTags = map[string]bool{
		"a": true, "b": true, "strong": true, "i": true, "em": true, "u": true,
		"p": true, "br": true, "ul": true, "ol": true, "li": true,
		"blockquote": true, "code": true, "pre": true, "span": true, "img": true,
	}
	// droppedTags are removed together with their content.
	droppedTags = map[string]bool{
		"script": true, "style": true, "iframe": true, "object": true, "embed": true,
	}
	voidTags = map[string]bool{"br": true, "img": true}

	brRunRe    = regexp.MustCompile(`(?:<br\s*/?>\s*)+`)
	brBeforeIm = regexp.MustCompile(`/>\s*<br />\s*<img`)
)

// ToHTML converts body stored in the given format to safe HTML.
// HTML formats are sanitized; every other format, including unknown ones,
// is escaped with newlines turned into line breaks.
func ToHTML(body, format string) string {
	switch strings.ToLower(format) {
	case HTML, Wysiwyg:
		return Sanitize(body)
	default:
		return textToHTML(body)
	}
}

// Condense collapses runs of line breaks into one and removes the break
// between a self-closed element and a following image.
func Condense(s string) string {
	s = brRunRe.ReplaceAllString(s, "<br />")
	s = brBeforeIm.ReplaceAllString(s, "/> <img")
	return strings.TrimSpace(s)
}

func textToHTML(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br />")
}

// Sanitize keeps an allowlist of tags and safe attributes and escapes all text.
func Sanitize(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	skip := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return sb.String()
		}
		tok := z.Token()

		switch tt {
		case html.TextToken:
			if skip == 0 {
				sb.WriteString(html.EscapeString(tok.Data))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if droppedTags[tok.Data] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 || !allowedTags[tok.Data] {
				continue
			}
			writeStartTag(&sb, tok)
		case html.EndTagToken:
			if droppedTags[tok.Data] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 || !allowedTags[tok.Data] || voidTags[tok.Data] {
				continue
			}
			sb.WriteString("</" + tok.Data + ">")
		}
	}
}

func writeStartTag(sb *strings.Builder, tok html.Token) {
	sb.WriteString("<" + tok.Data)
	for _, a := range tok.Attr {
		if !allowedAttr(tok.Data, a) {
			continue
		}
		sb.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}
	if tok.Data == "a" {
		sb.WriteString(` rel="nofollow"`)
	}
	if voidTags[tok.Data] {
		sb.WriteString(" />")
		return
	}
	sb.WriteString(">")
}

func allowedAttr(tag string, a html.Attribute) bool {
	switch {
	case tag == "a" && a.Key == "href", tag == "img" && a.Key == "src":
		return safeURL(a.Val)
	case tag == "img" && a.Key == "alt":
		return true
	default:
		return false
	}
}

func safeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return true
	default:
		return false
	}
}
