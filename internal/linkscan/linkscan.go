// Package linkscan looks for links to a given site inside an HTML document.
//
// It is a heuristic: pages that render their links client side will produce
// false negatives.
package linkscan

import (
	"bytes"
	"context"
	"strings"

	"leadsearch/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ScanForLink reports whether any anchor in htmlBody has an href containing
// target. The comparison ignores case. Unparseable input never matches.
func ScanForLink(htmlBody []byte, target string) bool {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return false
	}

	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(strings.ToLower(href), target) {
			found = true
			return false
		}
		return true
	})
	return found
}

// FindLinks returns every href in htmlBody containing target, in document
// order.
func FindLinks(ctx context.Context, htmlBody []byte, target string) []string {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	var links []string
	for _, a := range htmlutil.GetAnchors(ctx, doc.Find("a")) {
		if strings.Contains(strings.ToLower(a.Href), target) {
			links = append(links, a.Href)
		}
	}
	return links
}
