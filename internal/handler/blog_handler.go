package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/repository"
	"blogapi/internal/service"
	"blogapi/internal/upload"
)

// BlogHandler handles blog endpoints.
type BlogHandler struct {
	blogService service.BlogService
	gate        *upload.Gate
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(blogService service.BlogService, gate *upload.Gate) *BlogHandler {
	return &BlogHandler{blogService: blogService, gate: gate}
}

// DeleteBlogRequest names the author asking for the deletion.
type DeleteBlogRequest struct {
	AuthorName string `json:"authorName" validate:"required"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListBlogs godoc
// @Summary List blogs
// @Description Filter by author (user) or by category (categories); author wins when both are set.
// @Tags blogs
// @Produce json
// @Param user query string false "Author name"
// @Param categories query string false "Category"
// @Success 200 {array} model.Blog
// @Failure 500 {object} errors.ErrorResponse
// @Router /blog [get]
func (h *BlogHandler) ListBlogs(c echo.Context) error {
	blogs, err := h.blogService.ListBlogs(c.Request().Context(), repository.BlogFilter{
		AuthorName: c.QueryParam("user"),
		Category:   c.QueryParam("categories"),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, blogs)
}

// GetBlog godoc
// @Summary Get blog by id
// @Tags blogs
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} model.Blog
// @Failure 404 {object} errors.ErrorResponse
// @Router /blog/{id} [get]
func (h *BlogHandler) GetBlog(c echo.Context) error {
	blog, err := h.blogService.GetBlog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, blog)
}

// CreateBlog godoc
// @Summary Create blog
// @Tags blogs
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param content formData string true "Content"
// @Param authorName formData string true "Author username"
// @Param categories formData string true "Comma separated categories"
// @Param blogImage formData file true "Cover image (jpeg/png/gif, max 5MB)"
// @Success 200 {object} model.Blog
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /blog/new [post]
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	ctx := c.Request().Context()
	up, err := h.gate.Accept(ctx, c.Request(), upload.BlogImage)
	if err != nil {
		return httpError(err)
	}

	blog, err := h.blogService.CreateBlog(ctx, blogInput(up))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, blog)
}

// UpdateBlog godoc
// @Summary Edit blog
// @Description Only the blog's author may edit it. Omit blogImage to keep the current image.
// @Tags blogs
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Blog ID"
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param content formData string true "Content"
// @Param authorName formData string true "Author username"
// @Param categories formData string true "Comma separated categories"
// @Param blogImage formData file false "Cover image (jpeg/png/gif, max 5MB)"
// @Success 200 {object} model.Blog
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /blog/edit/{id} [put]
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	ctx := c.Request().Context()
	up, err := h.gate.Accept(ctx, c.Request(), upload.BlogImage.Optional())
	if err != nil {
		return httpError(err)
	}

	blog, err := h.blogService.UpdateBlog(ctx, c.Param("id"), blogInput(up))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, blog)
}

// DeleteBlog godoc
// @Summary Delete blog
// @Tags blogs
// @Accept json
// @Produce json
// @Param id path string true "Blog ID"
// @Param request body DeleteBlogRequest true "Author"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blog/delete/{id} [delete]
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	var req DeleteBlogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("INVALID_REQUEST", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("VALIDATION_ERROR", err.Error())
	}

	if err := h.blogService.DeleteBlog(c.Request().Context(), c.Param("id"), req.AuthorName); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "deleted successfully"})
}

func blogInput(up *upload.Upload) service.BlogInput {
	return service.BlogInput{
		Title:       up.Form.Get("title"),
		Description: up.Form.Get("description"),
		Content:     up.Form.Get("content"),
		AuthorName:  up.Form.Get("authorName"),
		Categories:  up.Form.List("categories"),
		Image:       up.Image,
	}
}
