package goquery

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	addressClassPattern = regexp.MustCompile(`(?i)address|location|office`)
	streetNumberPattern = regexp.MustCompile(`\d{1,5}\s+\w+`)
	postalCodePattern   = regexp.MustCompile(`\d{5}`)
)

const maxAddressTextLength = 200

// extractAddresses returns addresses found in address-like containers
// followed by those declared in JSON-LD postal data.
func extractAddresses(doc *goquery.Document) []string {
	var addresses []string

	doc.Find("address[class], div[class], p[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !addressClassPattern.MatchString(class) {
			return
		}
		text := joinedText(sel)
		if !streetNumberPattern.MatchString(text) || !postalCodePattern.MatchString(text) {
			return
		}
		addresses = append(addresses, truncateRunes(text, maxAddressTextLength))
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return
		}
		addresses = append(addresses, jsonLDAddresses(data)...)
	})

	return addresses
}

// jsonLDAddresses walks a decoded JSON-LD value, including arrays and
// @graph containers, and formats every postal address it declares.
func jsonLDAddresses(data any) []string {
	var out []string
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			out = append(out, jsonLDAddresses(item)...)
		}
	case map[string]any:
		if addr, ok := v["address"].(map[string]any); ok {
			if formatted := formatPostalAddress(addr); formatted != "" {
				out = append(out, formatted)
			}
		}
		if graph, ok := v["@graph"]; ok {
			out = append(out, jsonLDAddresses(graph)...)
		}
	}
	return out
}

// formatPostalAddress joins a schema.org PostalAddress as
// "street, city, region zip".
func formatPostalAddress(addr map[string]any) string {
	field := func(key string) string {
		s, _ := addr[key].(string)
		return strings.TrimSpace(s)
	}
	full := field("streetAddress") + ", " + field("addressLocality") + ", " +
		field("addressRegion") + " " + field("postalCode")
	return strings.Trim(full, ", ")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
