// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for titles.
type Handler struct {
	service *Service
	nested  []func(chi.Router)
}

// NewHandler constructs a title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Nest registers sub-routes under /{titleID}, such as reviews.
func (handler *Handler) Nest(register func(chi.Router)) *Handler {
	handler.nested = append(handler.nested, register)
	return handler
}

// Routes returns a [chi.Router] configured with the title endpoints.
//
// # Endpoints
//   - GET    /           : List with ?category=&genre=&name=&year=
//   - POST   /           : Create (admin)
//   - GET    /{titleID}  : Retrieve with rating
//   - PATCH  /{titleID}  : Partial update (admin)
//   - DELETE /{titleID}  : Delete (admin)
//
// Nested routes carry their own permission checks.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	permit := middleware.Permit(sec.AdminOrReadOnly)

	router.With(permit).Get("/", handler.list)
	router.With(permit).Post("/", handler.create)

	router.Route("/{titleID}", func(detail chi.Router) {
		detail.With(permit).Get("/", handler.get)
		detail.With(permit).Patch("/", handler.update)
		detail.With(permit).Delete("/", handler.delete)

		for _, register := range handler.nested {
			register(detail)
		}
	})

	return router
}

type writeRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{
		Category: requestutil.Query(request, FieldCategory),
		Genre:    requestutil.Query(request, FieldGenre),
		Name:     requestutil.Query(request, FieldName),
	}
	if raw := requestutil.Query(request, FieldYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 0 || year > math.MaxInt32 {
			respond.Error(writer, request, apperr.FieldInvalid(FieldYear, "Enter a whole number"))
			return
		}
		filter.Year = &year
	}

	params := pagination.FromRequest(request)
	titles, total, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var body writeRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), Input(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "titleID", resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "titleID", resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body writeRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, Input(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "titleID", resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
