// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for reviews and comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the review tree on a router already scoped to
// /titles/{titleID}.
//
// # Endpoints
//   - GET, POST          /reviews
//   - GET, PATCH, DELETE /reviews/{reviewID}
//   - GET, POST          /reviews/{reviewID}/comments
//   - GET, PATCH, DELETE /reviews/{reviewID}/comments/{commentID}
func (handler *Handler) Register(router chi.Router) {
	router.Route("/reviews", func(reviews chi.Router) {
		reviews.Use(middleware.Permit(permission))

		reviews.Get("/", handler.listReviews)
		reviews.Post("/", handler.createReview)
		reviews.Get("/{reviewID}", handler.getReview)
		reviews.Patch("/{reviewID}", handler.updateReview)
		reviews.Delete("/{reviewID}", handler.deleteReview)

		reviews.Get("/{reviewID}/comments", handler.listComments)
		reviews.Post("/{reviewID}/comments", handler.createComment)
		reviews.Get("/{reviewID}/comments/{commentID}", handler.getComment)
		reviews.Patch("/{reviewID}/comments/{commentID}", handler.updateComment)
		reviews.Delete("/{reviewID}/comments/{commentID}", handler.deleteComment)
	})
}

type reviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text *string `json:"text"`
}

// path holds the numeric IDs addressed by a request.
type path struct {
	titleID, reviewID, commentID int64
}

// parsePath reads the title ID and, when depth allows, the review and
// comment IDs. Non-numeric IDs are reported as not found.
func parsePath(request *http.Request, depth int) (path, error) {
	var p path
	var err error

	if p.titleID, err = requestutil.Int64Param(request, "titleID", resourceTitle); err != nil {
		return p, err
	}
	if depth > 1 {
		if p.reviewID, err = requestutil.Int64Param(request, "reviewID", resourceReview); err != nil {
			return p, err
		}
	}
	if depth > 2 {
		if p.commentID, err = requestutil.Int64Param(request, "commentID", resourceComment); err != nil {
			return p, err
		}
	}
	return p, nil
}

// # Reviews

func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 1)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.service.ListReviews(request.Context(), p.titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, reviews, pagination.NewMeta(params, total))
}

func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 1)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body reviewRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), requestutil.Principal(request), p.titleID, ReviewInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetReview(request.Context(), p.titleID, p.reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body reviewRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), requestutil.Principal(request), p.titleID, p.reviewID, ReviewInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), requestutil.Principal(request), p.titleID, p.reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Comments

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.service.ListComments(request.Context(), p.titleID, p.reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, pagination.NewMeta(params, total))
}

func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body commentRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), requestutil.Principal(request), p.titleID, p.reviewID, CommentInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 3)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), p.titleID, p.reviewID, p.commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 3)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body commentRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), requestutil.Principal(request), p.titleID, p.reviewID, p.commentID, CommentInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, 3)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), requestutil.Principal(request), p.titleID, p.reviewID, p.commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
