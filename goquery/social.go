package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/fwojciec/leadscout"
)

var socialPatterns = map[leadscout.Platform]*regexp.Regexp{
	leadscout.PlatformFacebook:  regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?\b(?:facebook|fb)\.com/(?:pages/)?[a-zA-Z0-9._-]+/?`),
	leadscout.PlatformInstagram: regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?\binstagram\.com/[a-zA-Z0-9._]+/?`),
	leadscout.PlatformTwitter:   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?\b(?:twitter|x)\.com/[a-zA-Z0-9_]+/?`),
	leadscout.PlatformLinkedIn:  regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?\blinkedin\.com/(?:company|in|profile)/[a-zA-Z0-9-]+/?`),
	leadscout.PlatformYouTube:   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?\byoutube\.com/(?:channel/|c/|user/|@)[a-zA-Z0-9_-]+/?`),
	leadscout.PlatformTikTok:    regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?\btiktok\.com/@[a-zA-Z0-9._]+/?`),
	leadscout.PlatformPinterest: regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?\bpinterest\.com/[a-zA-Z0-9_]+/?`),
	leadscout.PlatformSnapchat:  regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?\bsnapchat\.com/add/[a-zA-Z0-9._-]+/?`),
	leadscout.PlatformWhatsApp:  regexp.MustCompile(`(?i)(?:https?://)?\b(?:wa\.me|api\.whatsapp\.com)/\d+`),
	leadscout.PlatformTelegram:  regexp.MustCompile(`(?i)(?:https?://)?\b(?:t\.me|telegram\.me)/[a-zA-Z0-9_]+/?`),
}

// extractSocial finds at most one profile per platform. Anchor hrefs are
// checked first, in document order, then the raw markup.
func extractSocial(hrefs []string, raw string, base *url.URL) map[leadscout.Platform]string {
	social := make(map[leadscout.Platform]string)
	for _, platform := range leadscout.Platforms {
		re := socialPatterns[platform]
		for _, href := range hrefs {
			if strings.HasPrefix(href, "/") && base != nil {
				if ref, err := url.Parse(href); err == nil {
					href = base.ResolveReference(ref).String()
				}
			}
			if re.MatchString(href) {
				social[platform] = withScheme(strings.TrimSpace(href))
				break
			}
		}
		if _, ok := social[platform]; ok {
			continue
		}
		if match := re.FindString(raw); match != "" {
			social[platform] = withScheme(match)
		}
	}
	return social
}

func withScheme(u string) string {
	if strings.HasPrefix(strings.ToLower(u), "http") {
		return u
	}
	return "https://" + u
}
