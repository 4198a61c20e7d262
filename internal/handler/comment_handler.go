package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"postboard/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// AddCommentRequest represents a new comment.
type AddCommentRequest struct {
	CommentText string `json:"commentText" form:"commentText"`
}

// AddComment godoc
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Param request body AddCommentRequest true "Comment"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{postId}/comments [post]
func (h *CommentHandler) AddComment(c echo.Context) error {
	author, err := authorID(c)
	if err != nil {
		return err
	}

	var req AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	comment, err := h.commentService.Add(c.Request().Context(), author, c.Param("postId"), req.CommentText)
	if err != nil {
		return errorResponse(err, "Error adding comment")
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListComments godoc
// @Summary Comments of a post
// @Description Newest first.
// @Tags comments
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {array} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{postId}/comments [get]
func (h *CommentHandler) ListComments(c echo.Context) error {
	comments, err := h.commentService.ListByPost(c.Request().Context(), c.Param("postId"))
	if err != nil {
		return errorResponse(err, "Error fetching comments")
	}
	return c.JSON(http.StatusOK, comments)
}
