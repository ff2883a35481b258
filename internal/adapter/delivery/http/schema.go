package http

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
)

const (
	statusError = "error"

	placeholderText = "Shortlink Creator Interface"
)

// createLinkRequest accepts the current field names and the aliases older
// clients send: url and redirect for destination, desc for description.
type createLinkRequest struct {
	Slug        string `json:"slug" validate:"required,slug"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,http_url"`
	Destination string `json:"destination" validate:"required,http_url"`

	URL      string `json:"url" validate:"-"`
	Redirect string `json:"redirect" validate:"-"`
	Desc     string `json:"desc" validate:"-"`
}

// normalize folds aliases into the current fields. A body with only a slug
// and a url is a legacy creation and gets the legacy placeholders.
func (req *createLinkRequest) normalize() {
	legacy := req.Title == "" && req.Destination == "" && req.Redirect == "" && req.URL != ""

	if req.Destination == "" {
		req.Destination = req.Redirect
	}
	if req.Destination == "" {
		req.Destination = req.URL
	}
	if req.Description == "" {
		req.Description = req.Desc
	}

	req.Slug = strings.TrimSpace(req.Slug)
	req.Destination = strings.TrimSpace(req.Destination)
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	if legacy {
		req.Title = entity.LegacyTitle
		if req.Description == "" {
			req.Description = entity.LegacyDescription
		}
	}
}

func (req *createLinkRequest) toLink() *entity.Link {
	return &entity.Link{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Destination: req.Destination,
	}
}

type createLinkResponse struct {
	Slug     string `json:"slug"`
	ShortURL string `json:"short_url"`
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	slugExistsResponse = errorResponse{
		Status:  statusError,
		Message: "slug already exists",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "http_url":
		return "must be an absolute http or https url"
	case "slug":
		return "must be at most 64 letters, digits, '-' or '_'"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}

func inputErrorResponse(err *entity.InputError) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors: []validationError{{
			Field:   err.Field,
			Message: err.Reason,
		}},
	}
}
