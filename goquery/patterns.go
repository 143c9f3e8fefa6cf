package goquery

import (
	"regexp"
	"strings"
)

// homedetailsPattern matches a direct listing URL, absolute or
// scheme-relative, capturing the ZPID digit run. This is the primary
// identifier pattern: liked-homes and open-house alerts link this way.
var homedetailsPattern = regexp.MustCompile(`(?i)(?:https?:)?//(?:www\.)?zillow\.com/homedetails/(?:[^\s"'<>]*?/)?(\d+)_zpid/?`)

// zpidTargetPattern matches the redirect-wrapper fragment new-listing alerts
// use instead of a direct link. The ZPID rides in a zpid_target path or
// query segment, plain or percent-encoded.
var zpidTargetPattern = regexp.MustCompile(`(?i)zpid_target(?:/|%2F)(\d+)_zpid`)

// cardClassPattern matches the class-token family of listing-card tables.
// Liked-homes and open-house alerts use mw502, new-listing alerts mw504.
var cardClassPattern = regexp.MustCompile(`mw50[24]`)

// addressLinePattern is the street-address heuristic for flattened block
// text: leading house number, street, comma, city, comma, two-letter state.
var addressLinePattern = regexp.MustCompile(`^\d+\s+\w+.*,\s*\w+.*,\s*[A-Z]{2}`)

// slugPattern pulls the address slug out of a homedetails URL path.
var slugPattern = regexp.MustCompile(`/homedetails/([^/]+)/\d+_zpid`)

// matchListing runs the ordered identifier-pattern chain over raw text and
// returns the first success. Both the block path and the link-scan path go
// through this single chain so their behavior cannot drift apart.
func matchListing(text string) (zpid, url string, ok bool) {
	if m := homedetailsPattern.FindStringSubmatch(text); m != nil {
		return m[1], canonicalize(m[0]), true
	}
	if m := zpidTargetPattern.FindStringSubmatch(text); m != nil {
		return m[1], CanonicalURL(m[1]), true
	}
	return "", "", false
}

// canonicalize normalizes a matched listing URL to an absolute URL with
// exactly one trailing slash.
func canonicalize(url string) string {
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	return strings.TrimRight(url, "/") + "/"
}

// CanonicalURL synthesizes the canonical listing URL for a ZPID.
func CanonicalURL(zpid string) string {
	return "https://www.zillow.com/homedetails/" + zpid + "_zpid/"
}

// AddressFromURL derives an approximate street address from a listing URL's
// path slug, e.g. ".../homedetails/123-Main-St-City-ST-12345/..." becomes
// "123 Main St City ST 12345". Returns "" when the URL has no slug.
func AddressFromURL(url string) string {
	m := slugPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], "-", " ")
}
