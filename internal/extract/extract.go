package extract

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// TagText parses input as HTML and returns the text of every element named
// tag, in document order. Each text is the concatenation of all descendant
// text nodes with leading and trailing whitespace removed; texts that are
// empty after trimming are dropped. Duplicates are kept.
//
// contentType is only used to pick the character set; the body is parsed as
// HTML whatever the declared type.
func TagText(input []byte, contentType string, tag string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(decode(input, contentType))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	items := make([]string, 0)
	doc.FindMatcher(ByTag(tag)).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			items = append(items, text)
		}
	})
	return items, nil
}

// decode converts input to UTF-8 using the declared charset or the document's
// own meta declaration. Valid UTF-8 without a declared charset is passed
// through untouched; unknown charsets fall back to the raw bytes.
func decode(input []byte, contentType string) io.Reader {
	if utf8.Valid(input) && !declaresCharset(contentType) {
		return bytes.NewReader(input)
	}
	r, err := charset.NewReader(bytes.NewReader(input), contentType)
	if err != nil {
		return bytes.NewReader(input)
	}
	return r
}

func declaresCharset(contentType string) bool {
	_, params, err := mime.ParseMediaType(contentType)
	return err == nil && params["charset"] != ""
}

// TagMatcher matches element nodes by name. It is a plain name comparison,
// never a CSS selector, so "div.note" matches nothing.
type TagMatcher struct {
	name string
}

var (
	_ cascadia.Matcher = TagMatcher{}
	_ goquery.Matcher  = TagMatcher{}
)

// ByTag returns a matcher for elements named tag. Names are compared without
// regard to case: HTML elements are lower-cased by the parser while foreign
// SVG elements such as linearGradient keep their mixed case.
func ByTag(tag string) TagMatcher {
	return TagMatcher{name: strings.TrimSpace(tag)}
}

// Match reports whether n is an element with the matcher's name.
func (m TagMatcher) Match(n *html.Node) bool {
	return m.name != "" && n != nil && n.Type == html.ElementNode && strings.EqualFold(n.Data, m.name)
}

// MatchAll returns n and its descendants that match, in document order.
func (m TagMatcher) MatchAll(n *html.Node) []*html.Node {
	var out []*html.Node
	if m.Match(n) {
		out = append(out, n)
	}
	return append(out, cascadia.QueryAll(n, m)...)
}

// Filter returns the nodes that match.
func (m TagMatcher) Filter(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		if m.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
