// Package codec converts links to and from the values kept in the record store.
//
// Two stored shapes exist. Legacy records hold the destination URL itself as
// the raw value. Structured records hold a JSON object; the earliest of them
// used the keys "desc" and "redirect", later ones "description" and
// "destination", and optional keys may be missing. Decode absorbs all of
// them so no migration of stored data is ever needed.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/vadimbarashkov/og-shortener/internal/entity"
)

// Record is the tagged result of parsing a stored value.
type Record interface {
	// Link unifies the record into a link. Slug is left empty for legacy
	// records; the store key is authoritative for it.
	Link() entity.Link
}

// LegacyRecord is a raw value that is the destination string itself.
type LegacyRecord struct {
	Destination string
}

func (r LegacyRecord) Link() entity.Link {
	return entity.Link{
		Title:       entity.LegacyTitle,
		Description: entity.LegacyDescription,
		Destination: r.Destination,
	}
}

// StructuredRecord is a raw value holding a serialized object.
type StructuredRecord struct {
	Slug        string
	Title       string
	Description string
	ImageURL    string
	Destination string
}

func (r StructuredRecord) Link() entity.Link {
	return entity.Link{
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Destination: r.Destination,
	}
}

// storedRecord is the current serialized form.
type storedRecord struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Destination string `json:"destination"`
}

// wireRecord accepts the current keys and the ones written by the first structured revision.
type wireRecord struct {
	storedRecord
	Desc     string `json:"desc"`
	Redirect string `json:"redirect"`
}

// Encode serializes link into the structured form.
func Encode(link entity.Link) (string, error) {
	const op = "codec.Encode"

	b, err := json.Marshal(storedRecord{
		Slug:        link.Slug,
		Title:       link.Title,
		Description: link.Description,
		ImageURL:    link.ImageURL,
		Destination: link.Destination,
	})
	if err != nil {
		return "", fmt.Errorf("%s: failed to marshal record: %w", op, err)
	}

	return string(b), nil
}

// Parse classifies raw as a structured or legacy record. It never fails:
// anything that is not an object with a non-empty destination is legacy.
func Parse(raw string) Record {
	var w wireRecord
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return LegacyRecord{Destination: raw}
	}

	destination := w.Destination
	if destination == "" {
		destination = w.Redirect
	}
	if destination == "" {
		return LegacyRecord{Destination: raw}
	}

	description := w.Description
	if description == "" {
		description = w.Desc
	}

	return StructuredRecord{
		Slug:        w.Slug,
		Title:       w.Title,
		Description: description,
		ImageURL:    w.ImageURL,
		Destination: destination,
	}
}

// Decode turns a stored value into a link. Callers must treat an absent or
// empty value as not found instead of decoding it.
func Decode(raw string) entity.Link {
	return Parse(raw).Link()
}
