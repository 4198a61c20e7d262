package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"postboard/internal/model"
	"postboard/internal/service"
)

// AdminHandler handles moderation endpoints.
type AdminHandler struct {
	postService    service.PostService
	commentService service.CommentService
	userService    service.UserService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(posts service.PostService, comments service.CommentService, users service.UserService) *AdminHandler {
	return &AdminHandler{postService: posts, commentService: comments, userService: users}
}

// DeleteResponse reports the outcome of a delete. Deleted is false when
// nothing matched the id.
type DeleteResponse struct {
	Message string `json:"message"`
	Deleted bool   `json:"deleted"`
}

// AdminUser is the moderation view of a user and includes the password hash.
type AdminUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

func newAdminUser(u model.User) AdminUser {
	return AdminUser{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
	}
}

// ListPosts godoc
// @Summary All posts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Post
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/posts [get]
func (h *AdminHandler) ListPosts(c echo.Context) error {
	posts, err := h.postService.All(c.Request().Context())
	if err != nil {
		return errorResponse(err, "Error fetching posts")
	}
	return c.JSON(http.StatusOK, posts)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Success 200 {object} DeleteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/posts/{postId} [delete]
func (h *AdminHandler) DeletePost(c echo.Context) error {
	deleted, err := h.postService.Delete(c.Request().Context(), c.Param("postId"))
	if err != nil {
		return errorResponse(err, "Error deleting post")
	}
	return c.JSON(http.StatusOK, DeleteResponse{Message: "Post deleted", Deleted: deleted})
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} DeleteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/comments/{commentId} [delete]
func (h *AdminHandler) DeleteComment(c echo.Context) error {
	deleted, err := h.commentService.Delete(c.Request().Context(), c.Param("commentId"))
	if err != nil {
		return errorResponse(err, "Error deleting comment")
	}
	return c.JSON(http.StatusOK, DeleteResponse{Message: "Comment deleted", Deleted: deleted})
}

// ListUsers godoc
// @Summary All users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AdminUser
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return errorResponse(err, "Error fetching users")
	}

	views := make([]AdminUser, 0, len(users))
	for _, u := range users {
		views = append(views, newAdminUser(u))
	}
	return c.JSON(http.StatusOK, views)
}
