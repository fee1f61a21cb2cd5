// Package link derives canonical forum URLs for search results.
package link

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugRunes caps the slug appended to discussion URLs.
const maxSlugRunes = 80

// Builder builds absolute URLs under a site base.
type Builder struct {
	base string
}

// New creates a builder. base may be empty for root-relative URLs.
func New(base string) Builder {
	return Builder{base: strings.TrimRight(base, "/")}
}

// Thread returns the thread view URL: <base>/discussion/<id>.
func (b Builder) Thread(id string) string {
	return b.base + "/discussion/" + url.PathEscape(id)
}

// Reply returns the anchored in-thread URL of a reply:
// <base>/discussion/comment/<id>/#Comment_<id>.
func (b Builder) Reply(id string) string {
	esc := url.PathEscape(id)
	return b.base + "/discussion/comment/" + esc + "/#Comment_" + esc
}

// Discussion returns the thread URL with a slug of the title appended.
func (b Builder) Discussion(id int64, title string) string {
	u := b.Thread(strconv.FormatInt(id, 10))
	if s := Slug(title); s != "" {
		u += "/" + url.PathEscape(s)
	}
	return u
}

// Slug lowercases title, strips diacritics, and joins letter/digit runs with '-'.
func Slug(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}

	var sb strings.Builder
	dash := false
	n := 0
	for _, r := range strings.ToLower(plain) {
		if n >= maxSlugRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
				n++
			}
			sb.WriteRune(r)
			n++
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}
