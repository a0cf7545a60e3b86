package api

import (
	"net/http"

	reqdto "shop-order-scheduler/internal/handler/dto/request"
	resdto "shop-order-scheduler/internal/handler/dto/response"
	"shop-order-scheduler/internal/handler/httperr"
	"shop-order-scheduler/internal/usecase/commands"
	"shop-order-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"
	MsgInvalidIdempotencyKey = "Idempotency-Key must be a UUID"
)

type OrderHandler struct {
	cmds commands.OrderCommands
	q    queries.OrderQueries
}

func NewOrderHandler(cmds commands.OrderCommands, q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, q: q}
}

// @Summary Create production order
// @Description Validate and create an order. Scheduling it on a resource marks the resource Busy.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key (UUID)"
// @Param request body reqdto.CreateOrderRequest true "Order"
// @Success 201 {object} resdto.OrderResponse
// @Success 200 {object} resdto.OrderResponse "Replayed idempotent request"
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	idempotencyKey := c.GetHeader(HeaderIdempotencyKey)
	if idempotencyKey != "" {
		if _, err := uuid.Parse(idempotencyKey); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, MsgInvalidIdempotencyKey, nil)
			return
		}
	}

	var req reqdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, MsgInvalidRequest, nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req.ToDraft(), idempotencyKey)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), result.Order.ID)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, MsgInternal, nil)
		return
	}

	if result.IsReplayed {
		c.Header(HeaderIdempotentReplayed, "true")
		c.JSON(http.StatusOK, res)
		return
	}
	c.Header("Location", "/api/orders/"+res.ID)
	c.JSON(http.StatusCreated, res)
}

// @Summary List production orders
// @Description List orders in creation order, optionally filtered by status and paged with a cursor
// @Tags orders
// @Produce json
// @Param status query string false "Status filter"
// @Param limit query int false "Page size (0 = all, max 200)"
// @Param cursor query string false "Cursor from a previous page"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Router /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var query reqdto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, MsgInvalidRequest, nil)
		return
	}

	views, next, err := h.q.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromOrderViews(views, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, MsgInternal, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get production order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 404 {object} httperr.Response
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	view, err := h.q.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, MsgInternal, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Update production order
// @Description Merge the given fields over the order and validate the result as a whole
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateOrderRequest true "Fields to change"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/orders/{id} [patch]
func (h *OrderHandler) Update(c *gin.Context) {
	var req reqdto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, MsgInvalidRequest, nil)
		return
	}

	updated, err := h.cmds.Update(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), updated.ID)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, MsgInternal, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Delete production order
// @Tags orders
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Router /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.cmds.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
