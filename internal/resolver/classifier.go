package resolver

import "strings"

// DefaultBotAgents are user-agent signatures of the crawlers that fetch link previews.
var DefaultBotAgents = []string{
	"facebookexternalhit",
	"Facebot",
	"Googlebot",
	"bingbot",
	"Slackbot",
	"Discordbot",
	"Twitterbot",
	"LinkedInBot",
	"WhatsApp",
	"TelegramBot",
	"Pinterestbot",
	"redditbot",
	"Applebot",
	"Embedly",
}

// Classifier tells preview crawlers apart from human visitors by user agent.
type Classifier struct {
	signatures []string
}

// NewClassifier builds a classifier matching any of signatures as a
// case-insensitive substring. Blank signatures are ignored.
func NewClassifier(signatures []string) *Classifier {
	c := &Classifier{signatures: make([]string, 0, len(signatures))}

	for _, s := range signatures {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			c.signatures = append(c.signatures, s)
		}
	}

	return c
}

// IsBot reports whether userAgent belongs to a known crawler.
// Empty and unknown user agents are human.
func (c *Classifier) IsBot(userAgent string) bool {
	if userAgent == "" {
		return false
	}

	ua := strings.ToLower(userAgent)
	for _, s := range c.signatures {
		if strings.Contains(ua, s) {
			return true
		}
	}

	return false
}
