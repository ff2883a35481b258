// Package resolver decides how a resolved short link is answered: a preview
// page carrying the link metadata, with or without a delayed redirect for
// humans, or a bare redirect.
package resolver

import (
	"fmt"
	"strings"
	"time"

	"github.com/vadimbarashkov/og-shortener/internal/entity"
)

const (
	// ModePreview serves a metadata page to every client and redirects humans from it.
	ModePreview = "preview"
	// ModeRedirect answers every client with a transport-level redirect.
	ModeRedirect = "redirect"

	// DefaultRedirectDelay leaves misclassified crawlers a window to read the metadata.
	DefaultRedirectDelay = time.Second
)

// Kind is the kind of response an Outcome asks for.
type Kind int

const (
	// KindPage is a terminal HTML document served with a success status.
	KindPage Kind = iota
	// KindRedirect is a transport-level redirect to Location.
	KindRedirect
)

// Outcome is the response chosen for a request.
type Outcome struct {
	Kind     Kind
	Body     string // Body is the HTML document for KindPage.
	Location string // Location is the redirect target for KindRedirect.
	Bot      bool   // Bot reports whether the client was classified as a crawler.
}

// Decider chooses the response for a resolved link and the client's user agent.
type Decider interface {
	Decide(link *entity.Link, userAgent string) (*Outcome, error)
}

// Config configures a Decider.
type Config struct {
	Mode          string
	BaseURL       string
	BotAgents     []string
	RedirectDelay time.Duration
}

// New returns the Decider for cfg.Mode.
func New(cfg Config) (Decider, error) {
	const op = "resolver.New"

	switch cfg.Mode {
	case ModePreview, "":
		return NewPreviewDecider(cfg.BaseURL, NewClassifier(cfg.BotAgents), cfg.RedirectDelay), nil
	case ModeRedirect:
		return NewRedirectDecider(), nil
	default:
		return nil, fmt.Errorf("%s: unknown resolve mode %q", op, cfg.Mode)
	}
}

// PreviewDecider serves the link metadata as a page. Crawlers get a terminal
// page without any redirect instruction; humans get the same page with a
// delayed meta refresh and a matching script redirect.
type PreviewDecider struct {
	baseURL    string
	classifier *Classifier
	delay      time.Duration
}

func NewPreviewDecider(baseURL string, classifier *Classifier, delay time.Duration) *PreviewDecider {
	if delay < 0 {
		delay = DefaultRedirectDelay
	}

	return &PreviewDecider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		classifier: classifier,
		delay:      delay,
	}
}

func (d *PreviewDecider) Decide(link *entity.Link, userAgent string) (*Outcome, error) {
	const op = "resolver.PreviewDecider.Decide"

	if link.Destination == "" {
		return nil, fmt.Errorf("%s: %w: empty destination for slug %q", op, entity.ErrDataIntegrity, link.Slug)
	}

	bot := d.classifier.IsBot(userAgent)
	if !bot && !entity.IsHTTPURL(link.Destination) {
		return nil, fmt.Errorf("%s: %w: refusing to redirect slug %q to a non-http destination", op, entity.ErrDataIntegrity, link.Slug)
	}

	body, err := renderPage(pageData{
		Title:        link.Title,
		Description:  link.Description,
		ImageURL:     link.ImageURL,
		CanonicalURL: d.baseURL + "/" + link.Slug,
		Destination:  link.Destination,
		Redirect:     !bot,
		Delay:        d.delay,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Outcome{Kind: KindPage, Body: body, Bot: bot}, nil
}

// RedirectDecider answers every client with a bare redirect to the destination.
type RedirectDecider struct{}

func NewRedirectDecider() *RedirectDecider {
	return &RedirectDecider{}
}

func (d *RedirectDecider) Decide(link *entity.Link, _ string) (*Outcome, error) {
	const op = "resolver.RedirectDecider.Decide"

	if !entity.IsHTTPURL(link.Destination) {
		return nil, fmt.Errorf("%s: %w: slug %q has no usable destination", op, entity.ErrDataIntegrity, link.Slug)
	}

	return &Outcome{Kind: KindRedirect, Location: link.Destination}, nil
}
