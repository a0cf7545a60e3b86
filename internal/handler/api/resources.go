package api

import (
	"net/http"

	reqdto "shop-order-scheduler/internal/handler/dto/request"
	resdto "shop-order-scheduler/internal/handler/dto/response"
	"shop-order-scheduler/internal/handler/httperr"
	"shop-order-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	q queries.ResourceQueries
}

func NewResourceHandler(q queries.ResourceQueries) *ResourceHandler {
	return &ResourceHandler{q: q}
}

// @Summary List resources
// @Tags resources
// @Produce json
// @Param status query string false "Available or Busy"
// @Success 200 {array} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Router /api/resources [get]
func (h *ResourceHandler) List(c *gin.Context) {
	var query reqdto.ListResourcesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, MsgInvalidRequest, nil)
		return
	}

	rs, err := h.q.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromResources(rs)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, MsgInternal, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get resource
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	r, err := h.q.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromResource(r)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, MsgInternal, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
