package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "postboard/internal/errors"
	"postboard/internal/service"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest holds the non-file fields of a new post.
type CreatePostRequest struct {
	Text    string `form:"text" json:"text"`
	Youtube string `form:"youtube" json:"youtube"`
}

// CreatePost godoc
// @Summary Create a post
// @Description Accepts multipart/form-data with optional text, youtube and a single image file.
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param text formData string false "Post text"
// @Param youtube formData string false "Video link"
// @Param image formData file false "Image attachment"
// @Success 201 {object} model.Post
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/create [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	author, err := authorID(c)
	if err != nil {
		return err
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	in := service.CreatePostInput{
		AuthorID: author,
		Text:     req.Text,
		Youtube:  req.Youtube,
	}

	file, err := c.FormFile("image")
	switch {
	case err == nil:
		src, err := file.Open()
		if err != nil {
			return createPostFailed(err)
		}
		defer src.Close()
		in.Attachment = &service.Attachment{Filename: file.Filename, Content: src}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// No attachment.
	default:
		return bindError(err)
	}

	post, err := h.postService.Create(c.Request().Context(), in)
	if err != nil {
		return createPostFailed(err)
	}

	return c.JSON(http.StatusCreated, post)
}

func createPostFailed(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
		Message: "Error creating post",
		Error:   err.Error(),
	}).SetInternal(err)
}

// ListPosts godoc
// @Summary Latest posts
// @Description Returns up to 20 posts, newest first.
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postService.Latest(c.Request().Context())
	if err != nil {
		return errorResponse(err, "Error fetching posts")
	}
	return c.JSON(http.StatusOK, posts)
}
