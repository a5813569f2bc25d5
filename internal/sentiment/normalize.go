package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	markdownLink = regexp.MustCompile(`\[(.*?)\]\((https?://[^\s)]+)\)`)
	bareURL      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
)

var renderer = blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
	Flags: blackfriday.UseXHTML,
})

// Normalize reduces feedback that may contain markdown, HTML, or links to
// plain prose. When nothing survives normalization the trimmed input is returned.
func Normalize(text string) string {
	out := markdownLink.ReplaceAllString(text, "$1")

	rendered := blackfriday.Run([]byte(out),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(renderer),
	)

	out = htmlTag.ReplaceAllString(string(rendered), " ")
	out = html.UnescapeString(out)
	out = bareURL.ReplaceAllString(out, "")
	out = strings.Join(strings.Fields(out), " ")

	if out == "" {
		return strings.TrimSpace(text)
	}
	return out
}
