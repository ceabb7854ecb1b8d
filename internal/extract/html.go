package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

var skippedElements = map[string]struct{}{
	"script": {},
	"style":  {},
	"head":   {},
	"nav":    {},
}

var blockElements = map[string]struct{}{
	"p": {}, "div": {}, "section": {}, "article": {}, "li": {}, "tr": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"br": {}, "table": {}, "ul": {}, "ol": {},
}

func htmlText(data []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skippedElements[n.Data]; skip {
				return
			}
			if _, block := blockElements[n.Data]; block {
				b.WriteByte('\n')
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return b.String(), nil
}
