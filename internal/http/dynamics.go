package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookfriends/server/internal/dynamics"
	"github.com/bookfriends/server/internal/entities"
)

type DynamicsController struct {
	service *dynamics.Service
}

func NewDynamicsController(service *dynamics.Service) *DynamicsController {
	return &DynamicsController{service: service}
}

type publishRequest struct {
	ISBN    string `json:"isbn"`
	Content string `json:"content" binding:"required,max=4000"`
}

// respondDynamicsError maps service errors to responses.
func respondDynamicsError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, dynamics.ErrParameter), errors.Is(err, dynamics.ErrInvalidPage):
		respondBadRequest(c, err.Error())
	case errors.Is(err, dynamics.ErrNotFound):
		respondNotFound(c, "dynamic")
	case errors.Is(err, dynamics.ErrUserNotFound):
		respondNotFound(c, "user")
	default:
		respondInternalError(c, err, context)
	}
}

func (dc *DynamicsController) page(c *gin.Context, page int, list []entities.Dynamic) {
	c.JSON(http.StatusOK, PageResponse{
		Data:     list,
		Page:     page,
		PageSize: dc.service.PageSize(),
		HasMore:  len(list) == dc.service.PageSize(),
	})
}

// Publish posts a dynamic as the logged-in user.
// POST /api/dynamic
func (dc *DynamicsController) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "content is required")
		return
	}

	dynamic, err := dc.service.Publish(c.Request.Context(), GetUserID(c), req.ISBN, req.Content)
	if err != nil {
		respondDynamicsError(c, err, "publish dynamic")
		return
	}
	respondCreated(c, dynamic)
}

// POST /api/dynamic/:id/like
func (dc *DynamicsController) Like(c *gin.Context) {
	if err := dc.service.Like(c.Request.Context(), c.Param("id")); err != nil {
		respondDynamicsError(c, err, "like dynamic")
		return
	}
	respondSuccess(c, "liked")
}

// GET /api/dynamic/:id
func (dc *DynamicsController) Get(c *gin.Context) {
	dynamic, err := dc.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDynamicsError(c, err, "get dynamic")
		return
	}
	c.JSON(http.StatusOK, dynamic)
}

// Delete hides one of the logged-in user's dynamics.
// DELETE /api/dynamic/:id
func (dc *DynamicsController) Delete(c *gin.Context) {
	if err := dc.service.Delete(c.Request.Context(), c.Param("id"), GetUserID(c)); err != nil {
		respondDynamicsError(c, err, "delete dynamic")
		return
	}
	respondSuccess(c, "deleted")
}

// GET /api/dynamic/user/:userId?page=
func (dc *DynamicsController) ListByUser(c *gin.Context) {
	page, ok := parsePageQuery(c)
	if !ok {
		return
	}
	list, err := dc.service.ListByUser(c.Request.Context(), c.Param("userId"), page)
	if err != nil {
		respondDynamicsError(c, err, "list user dynamics")
		return
	}
	dc.page(c, page, list)
}

// GET /api/dynamic?page=
func (dc *DynamicsController) ListAll(c *gin.Context) {
	page, ok := parsePageQuery(c)
	if !ok {
		return
	}
	list, err := dc.service.ListAll(c.Request.Context(), page)
	if err != nil {
		respondDynamicsError(c, err, "list dynamics")
		return
	}
	dc.page(c, page, list)
}
