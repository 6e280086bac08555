package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bloghub/blog-api/internal/api/metrics"
	"github.com/bloghub/blog-api/internal/core/domain"
	"github.com/bloghub/blog-api/internal/core/ports"
)

type BlogHandler struct {
	blogService ports.BlogService
}

func NewBlogHandler(blogService ports.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

type createBlogRequest struct {
	Title     string `json:"title" validate:"required,min=3"`
	Content   string `json:"content" validate:"required"`
	Published *bool  `json:"published"`
}

type updateBlogRequest struct {
	Title     string `json:"title" validate:"omitempty,min=3"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

// Create publishes a new post owned by the authenticated user.
//
// @Summary      Create blog post
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        body  body      createBlogRequest  true  "Post content"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/blogs [post]
func (h *BlogHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	blog, err := h.blogService.Create(c.Request().Context(), ports.CreateBlogInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	}, p.ID)
	if err != nil {
		return err
	}

	metrics.BlogPostsCreatedTotal.WithLabelValues(strconv.FormatBool(blog.Published)).Inc()
	return respond(c, http.StatusCreated, "Blog post created successfully", blog)
}

// GetAll lists published posts, newest first. Public.
//
// @Summary      List published posts
// @Tags         blogs
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/blogs [get]
func (h *BlogHandler) GetAll(c echo.Context) error {
	blogs, err := h.blogService.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Blogs retrieved successfully", blogs)
}

// GetByID returns a single post. Public.
//
// @Summary      Get post by id
// @Tags         blogs
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/blogs/{id} [get]
func (h *BlogHandler) GetByID(c echo.Context) error {
	blog, err := h.blogService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Blog retrieved successfully", blog)
}

// GetMine lists the authenticated user's posts, drafts included.
//
// @Summary      List own posts
// @Tags         blogs
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  map[string]any
// @Router       /api/blogs/my/posts [get]
func (h *BlogHandler) GetMine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	blogs, err := h.blogService.GetByAuthor(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Your blogs retrieved successfully", blogs)
}

// Update edits a post; only its author may do so.
//
// @Summary      Update post
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updateBlogRequest  true  "Fields to update"
// @Success      200   {object}  envelope
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/blogs/{id} [put]
func (h *BlogHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	blog, err := h.blogService.Update(c.Request().Context(), c.Param("id"), ports.UpdateBlogInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	}, p.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own posts")
		}
		return err
	}
	return respond(c, http.StatusOK, "Blog post updated successfully", blog)
}

// Delete removes a post; only its author may do so.
//
// @Summary      Delete post
// @Tags         blogs
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/blogs/{id} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.blogService.Delete(c.Request().Context(), c.Param("id"), p.ID); err != nil {
		if errors.Is(err, domain.ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
		}
		return err
	}
	return respond(c, http.StatusOK, "Blog post deleted successfully", nil)
}
