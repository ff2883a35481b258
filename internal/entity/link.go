// Package entity defines the entities and errors used in the application.
// It includes the Link struct, which represents a short link together with
// the preview metadata rendered for social-media crawlers, and the error
// taxonomy shared by every layer.
package entity

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrInvalidInput is returned when a link fails the creation preconditions.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSlugExists is returned when attempting to create a link with a slug that is already claimed.
	ErrSlugExists = errors.New("slug exists")
	// ErrLinkNotFound is returned when no record is stored for the requested slug.
	ErrLinkNotFound = errors.New("link not found")
	// ErrStoreUnavailable is returned when a record store operation itself fails.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrDataIntegrity is returned when a stored record cannot produce a usable link.
	ErrDataIntegrity = errors.New("data integrity violation")
)

const (
	// LegacyTitle is shown for records stored before preview metadata existed.
	LegacyTitle = "Legacy short link"
	// LegacyDescription accompanies LegacyTitle.
	LegacyDescription = "This short link was created before link previews were available."

	// MaxSlugLength is the longest slug accepted on creation.
	MaxSlugLength = 64
)

// reservedSlugs route to service endpoints and can never be claimed.
var reservedSlugs = map[string]struct{}{
	"api":       {},
	"shortener": {},
	"healthz":   {},
	"metrics":   {},
	"swagger":   {},
	"docs":      {},
}

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IsReservedSlug reports whether slug names a service endpoint.
func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[strings.ToLower(slug)]
	return ok
}

// IsValidSlug reports whether slug only contains characters safe for a single path segment.
func IsValidSlug(slug string) bool {
	return len(slug) <= MaxSlugLength && slugPattern.MatchString(slug)
}

// Link represents a short link and its preview metadata.
type Link struct {
	Slug        string // Slug is the creator-chosen identifier, immutable once stored.
	Title       string // Title is the display string for previews.
	Description string // Description is optional; empty when absent.
	ImageURL    string // ImageURL is an optional absolute URL of the preview image.
	Destination string // Destination is the absolute URL the visitor is sent to.
}

// InputError describes why a link was rejected on creation.
// It matches ErrInvalidInput with errors.Is.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validate checks the creation preconditions of the link.
func (l *Link) Validate() error {
	switch {
	case l.Slug == "":
		return &InputError{Field: "slug", Reason: "is required"}
	case !IsValidSlug(l.Slug):
		return &InputError{Field: "slug", Reason: "must be at most 64 letters, digits, '-' or '_'"}
	case IsReservedSlug(l.Slug):
		return &InputError{Field: "slug", Reason: "is reserved"}
	case strings.TrimSpace(l.Title) == "":
		return &InputError{Field: "title", Reason: "is required"}
	case !IsHTTPURL(l.Destination):
		return &InputError{Field: "destination", Reason: "must be an absolute http or https url"}
	case l.ImageURL != "" && !IsHTTPURL(l.ImageURL):
		return &InputError{Field: "imageUrl", Reason: "must be an absolute http or https url"}
	}

	return nil
}

// IsHTTPURL reports whether raw is an absolute URL with an http or https scheme and a host.
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
