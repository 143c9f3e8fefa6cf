// Package goquery implements listing extraction from Zillow alert email
// HTML. It keeps two views of each document: a parsed tag tree for locating
// card boundaries, addresses, and prices, and a raw serialization for
// pattern-searching links the tree cannot expose.
package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kmathews/zalert"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// recommendationMarkers introduce "recommended / similar homes" sections, in
// priority order. Everything from the first marker found onward is cut
// before extraction so recommendation cards are never parsed as primary
// listings.
var recommendationMarkers = []string{
	"Our recommendations for you",
	"Check out these similar homes",
}

// Ensure Extractor implements zalert.ListingExtractor at compile time.
var _ zalert.ListingExtractor = (*Extractor)(nil)

// Extractor extracts listing stubs from alert HTML. It handles the known
// alert layout family: structured card tables first, falling back to link
// scanning when no recognizable cards exist.
//
// Extractor is stateless and safe for concurrent use.
type Extractor struct {
	// Concurrency limits parallel per-alert extraction in ExtractAll.
	// Zero means a default of 4.
	Concurrency int
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the listing stubs found in one alert document, in
// first-seen order with pairwise distinct ZPIDs.
func (e *Extractor) Extract(alert zalert.Alert) ([]*zalert.Listing, error) {
	return e.ExtractWith(alert, zalert.NewSeenSet())
}

// ExtractWith is Extract with a caller-supplied seen-set, for callers that
// thread one deduplicator across several extraction calls.
func (e *Extractor) ExtractWith(alert zalert.Alert, seen *zalert.SeenSet) ([]*zalert.Listing, error) {
	if seen == nil {
		return nil, zalert.Errorf(zalert.EINVALID, "seen-set required")
	}

	raw := truncateRecommendations(alert.HTML)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, zalert.Errorf(zalert.EINVALID, "failed to parse alert HTML: %v", err)
	}

	listings := extractBlocks(doc, seen)
	if len(listings) == 0 {
		listings = scanLinks(doc, raw, seen)
	}
	return listings, nil
}

// ExtractAll extracts from a batch of alerts with one shared seen-set, so a
// listing referenced by two alerts yields one stub. Per-alert extraction
// runs in parallel; results are merged sequentially in input order, which
// keeps the output deterministic.
func (e *Extractor) ExtractAll(alerts []zalert.Alert) ([]*zalert.Listing, error) {
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([][]*zalert.Listing, len(alerts))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, alert := range alerts {
		g.Go(func() error {
			// Local seen-set per alert; the shared merge below owns
			// cross-alert deduplication.
			out, err := e.ExtractWith(alert, zalert.NewSeenSet())
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := zalert.NewSeenSet()
	var merged []*zalert.Listing
	for _, out := range results {
		for _, listing := range out {
			if seen.Add(listing.ZPID) {
				merged = append(merged, listing)
			}
		}
	}
	return merged, nil
}

// truncateRecommendations cuts the document at the first recommendation
// marker found, checked in priority order. Recommendation sections contain
// full card blocks indistinguishable from the primary listing, so this must
// run before any extraction.
func truncateRecommendations(raw string) string {
	for _, marker := range recommendationMarkers {
		if idx := strings.Index(raw, marker); idx != -1 {
			return raw[:idx]
		}
	}
	return raw
}

// extractBlocks walks the structured card tables in document order and
// emits one listing per table that yields a new identifier.
func extractBlocks(doc *goquery.Document, seen *zalert.SeenSet) []*zalert.Listing {
	var listings []*zalert.Listing

	doc.Find("table[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !cardClassPattern.MatchString(class) {
			return
		}

		// The real listing URL is often hidden inside click-tracking
		// redirects and VML conditional comments that the tag tree
		// cannot expose as anchors, so pattern-search the serialized
		// block instead of its <a> hrefs.
		blockHTML, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}

		zpid, url, ok := matchListing(blockHTML)
		if !ok {
			return
		}
		if !seen.Add(zpid) {
			return
		}

		address := blockAddress(sel)
		if address == "" {
			address = AddressFromURL(url)
		}

		listings = append(listings, &zalert.Listing{
			ZPID:    zpid,
			URL:     url,
			Address: address,
			Price:   blockPrice(sel),
		})
	})

	return listings
}

// scanLinks is the fallback for layouts with no recognizable card
// structure: every anchor target is tested against the direct-URL pattern,
// then the raw document text is scanned for matches outside anchors. The
// secondary pattern is not applied here; fallback mode only expects direct
// links.
func scanLinks(doc *goquery.Document, raw string, seen *zalert.SeenSet) []*zalert.Listing {
	var listings []*zalert.Listing

	add := func(m []string) {
		zpid := m[1]
		if !seen.Add(zpid) {
			return
		}
		url := canonicalize(m[0])
		listings = append(listings, &zalert.Listing{
			ZPID:    zpid,
			URL:     url,
			Address: AddressFromURL(url),
		})
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if m := homedetailsPattern.FindStringSubmatch(href); m != nil {
			add(m)
		}
	})

	for _, m := range homedetailsPattern.FindAllStringSubmatch(raw, -1) {
		add(m)
	}

	return listings
}

// blockAddress returns the first flattened text line in the block that
// satisfies the address heuristic.
func blockAddress(sel *goquery.Selection) string {
	for _, line := range textLines(sel) {
		if addressLinePattern.MatchString(line) {
			return line
		}
	}
	return ""
}

// textLines flattens a selection's text nodes into trimmed non-empty lines,
// one per text node, in document order.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return lines
}

// blockPrice reads the price from the first <h5> in the block, the display
// convention alert layouts share. Layouts without an <h5> price yield 0
// even when a price is visually present elsewhere in the card.
func blockPrice(sel *goquery.Selection) int {
	h5 := sel.Find("h5").First()
	if h5.Length() == 0 {
		return 0
	}

	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(h5.Text()))
	price, err := strconv.Atoi(cleaned)
	if err != nil || price < 0 {
		return 0
	}
	return price
}
