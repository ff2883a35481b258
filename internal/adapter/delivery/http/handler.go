package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
	"github.com/vadimbarashkov/og-shortener/internal/resolver"
)

type linkUseCase interface {
	CreateLink(ctx context.Context, link *entity.Link) (*entity.Link, error)
	ResolveLink(ctx context.Context, slug string) (*entity.Link, error)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "ok")
}

func handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, placeholderText)
}

type linkHandler struct {
	useCase  linkUseCase
	decider  resolver.Decider
	validate *validator.Validate
	baseURL  string
	metrics  *metrics
}

func newLinkHandler(
	useCase linkUseCase,
	decider resolver.Decider,
	validate *validator.Validate,
	baseURL string,
	m *metrics,
) *linkHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return entity.IsValidSlug(fl.Field().String())
	})

	return &linkHandler{
		useCase:  useCase,
		decider:  decider,
		validate: validate,
		baseURL:  strings.TrimRight(baseURL, "/"),
		metrics:  m,
	}
}

func (h *linkHandler) createLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	req.normalize()

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	link, err := h.useCase.CreateLink(r.Context(), req.toLink())
	if err != nil {
		var inputErr *entity.InputError

		switch {
		case errors.As(err, &inputErr):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, inputErrorResponse(inputErr))
		case errors.Is(err, entity.ErrSlugExists):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, slugExistsResponse)
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, serverErrorResponse)
		}
		return
	}

	h.metrics.linksCreatedTotal.Inc()

	render.Status(r, http.StatusOK)
	render.JSON(w, r, createLinkResponse{
		Slug:     link.Slug,
		ShortURL: h.baseURL + "/" + link.Slug,
	})
}

func (h *linkHandler) resolveLink(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if entity.IsReservedSlug(slug) {
		handlePlaceholder(w, r)
		return
	}

	link, err := h.useCase.ResolveLink(r.Context(), slug)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.PlainText(w, r, "Not found")
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, "Internal error")
		return
	}

	outcome, err := h.decider.Decide(link, r.UserAgent())
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, "Internal error")
		return
	}

	switch outcome.Kind {
	case resolver.KindRedirect:
		h.metrics.linksResolvedTotal.WithLabelValues("any").Inc()

		w.Header().Set("Cache-Control", "no-cache")
		http.Redirect(w, r, outcome.Location, http.StatusFound)
	default:
		client := "human"
		if outcome.Bot {
			client = "bot"
		}
		h.metrics.linksResolvedTotal.WithLabelValues(client).Inc()
		httplog.LogEntrySetField(r.Context(), "client", slog.StringValue(client))

		render.Status(r, http.StatusOK)
		render.HTML(w, r, outcome.Body)
	}
}
