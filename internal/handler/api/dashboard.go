package api

import (
	"net/http"

	"shop-order-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	q queries.DashboardQueries
}

func NewDashboardHandler(q queries.DashboardQueries) *DashboardHandler {
	return &DashboardHandler{q: q}
}

// @Summary Dashboard overview
// @Description Summary cards, status breakdown and per-resource utilization, recomputed on every call
// @Tags dashboard
// @Produce json
// @Success 200 {object} queries.DashboardView
// @Router /api/dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	view, err := h.q.Overview(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Order count per status
// @Tags dashboard
// @Produce json
// @Success 200 {array} dashboard.StatusCount
// @Router /api/dashboard/status-counts [get]
func (h *DashboardHandler) StatusCounts(c *gin.Context) {
	counts, err := h.q.StatusCounts(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// @Summary Scheduled and in-progress orders per resource
// @Tags dashboard
// @Produce json
// @Success 200 {array} dashboard.Utilization
// @Router /api/dashboard/utilization [get]
func (h *DashboardHandler) Utilization(c *gin.Context) {
	rows, err := h.q.ResourceUtilization(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
