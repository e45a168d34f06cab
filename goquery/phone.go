package goquery

import (
	"regexp"
	"strings"
)

var phonePatterns = []*regexp.Regexp{
	// international
	regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
	// US
	regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`),
	// E.164
	regexp.MustCompile(`\+\d{1,3}\s?\d{1,14}`),
}

const minPhoneLength = 10

// cleanPhone trims a phone candidate and collapses internal whitespace.
func cleanPhone(phone string) string {
	return strings.Join(strings.Fields(phone), " ")
}

// phoneCollector accumulates cleaned phone numbers in first-seen order.
type phoneCollector struct {
	seen   map[string]struct{}
	phones []string
}

func newPhoneCollector() *phoneCollector {
	return &phoneCollector{seen: make(map[string]struct{})}
}

func (c *phoneCollector) add(raw string) {
	phone := cleanPhone(raw)
	if len(phone) < minPhoneLength {
		return
	}
	if _, ok := c.seen[phone]; ok {
		return
	}
	c.seen[phone] = struct{}{}
	c.phones = append(c.phones, phone)
}

func (c *phoneCollector) scan(text string) {
	for _, re := range phonePatterns {
		for _, match := range re.FindAllString(text, -1) {
			c.add(match)
		}
	}
}

// telNumber returns the number of a tel: href, or "" if href is not a tel link.
func telNumber(href string) string {
	href = strings.TrimSpace(href)
	if len(href) < 4 || !strings.EqualFold(href[:4], "tel:") {
		return ""
	}
	return href[4:]
}
