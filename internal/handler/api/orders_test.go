//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/handler/api"
	"shop-order-scheduler/internal/handler/middleware"
	resdto "shop-order-scheduler/internal/handler/dto/response"
	"shop-order-scheduler/internal/pkg/errs"
	"shop-order-scheduler/internal/usecase/commands"
	"shop-order-scheduler/internal/usecase/queries"
	"shop-order-scheduler/tests/common/builder"
	"shop-order-scheduler/tests/common/httptest"
	"shop-order-scheduler/tests/common/testutil"
	commandsmock "shop-order-scheduler/tests/mock/commands"
	queriesmock "shop-order-scheduler/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockOrderCommands
	mockQueries  *queriesmock.MockOrderQueries
	handler      *api.OrderHandler
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockOrderCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/orders", s.handler.Create)
	s.router.GET("/orders", s.handler.List)
	s.router.GET("/orders/:id", s.handler.Get)
	s.router.PATCH("/orders/:id", s.handler.Update)
	s.router.DELETE("/orders/:id", s.handler.Delete)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func validationErr(verrs order.ValidationErrors) error {
	return errs.Mark(verrs, errs.ErrValidationFailed)
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *OrderHandlerTestSuite) TestCreate() {
	url := "/orders"
	b := builder.NewOrderBuilder()
	reqBody := b.BuildCreateRequestDTO()
	view := b.BuildView()

	s.Run("success: returns 201 with Location", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), b.BuildDraft(), "").
			Return(&commands.CreateOrderResult{Order: b.BuildDomain()}, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var res resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/orders/" + view.ID})
		s.Equal(view.ID, res.ID)
		s.Equal("CNC Machine 1", res.ResourceName)
		s.Equal(order.StatusScheduled, res.Status)
	})

	s.Run("replay: returns 200 with replay header", func() {
		key := "6f1c1f7e-2f43-4c59-9a44-5b0d2c1f8a11"
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), key).
			Return(&commands.CreateOrderResult{Order: b.BuildDomain(), IsReplayed: true}, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody,
			map[string]string{api.HeaderIdempotencyKey: key})

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		httptest.AssertHeaders(s.T(), rec, map[string]string{api.HeaderIdempotentReplayed: "true"})
	})

	s.Run("non-UUID idempotency key is rejected", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody,
			map[string]string{api.HeaderIdempotencyKey: "not-a-uuid"})

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, api.MsgInvalidIdempotencyKey)
	})

	s.Run("malformed JSON", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, `{"name":`, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, api.MsgInvalidRequest)
	})

	s.Run("wrong JSON type", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("name", 42))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, api.MsgInvalidRequest)
	})

	s.Run("validation failure lists every field", func() {
		verrs := order.ValidationErrors{
			{Field: "name", Message: order.MsgNameTooShort},
			{Field: "description", Message: order.MsgDescriptionTooShort},
			{Field: "resourceId", Message: order.MsgResourceNotFound},
		}
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), "").Return(nil, validationErr(verrs))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		httptest.AssertFieldErrors(s.T(), rec, []httptest.FieldError{
			{Field: "name", Message: order.MsgNameTooShort},
			{Field: "description", Message: order.MsgDescriptionTooShort},
			{Field: "resourceId", Message: order.MsgResourceNotFound},
		})
	})

	conflicts := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "key reused with other body", err: errs.ErrIdempotencyKeyMismatch, code: http.StatusConflict, msg: api.MsgIdempotencyMismatch},
		{name: "key in flight", err: errs.ErrIdempotencyInProgress, code: http.StatusConflict, msg: api.MsgIdempotencyInProgress},
		{name: "idempotency backend down", err: errs.Mark(errors.New("dial tcp"), errs.ErrIdempotencyCheckFailed), code: http.StatusServiceUnavailable, msg: api.MsgIdempotencyUnavailable},
		{name: "journal failure", err: errs.Mark(errors.New("disk full"), errs.ErrJournalCommitFailed), code: http.StatusInternalServerError, msg: api.MsgPersistFailed},
		{name: "unexpected error", err: errors.New("boom"), code: http.StatusInternalServerError, msg: api.MsgInternal},
	}
	for _, tc := range conflicts {
		s.Run(tc.name, func() {
			s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

			httptest.AssertErrorResponse(s.T(), rec, tc.code, tc.msg)
		})
	}
}

// ================================================================================
// TestList / TestGet
// ================================================================================

func (s *OrderHandlerTestSuite) TestList() {
	first := builder.NewOrderBuilder().BuildView()
	second := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) { b.ID = "ord-2" }).Pending().BuildView()

	s.Run("status filter and paging are forwarded", func() {
		status := order.StatusScheduled
		s.mockQueries.EXPECT().List(gomock.Any(), queries.OrderFilter{
			Status: &status,
			Limit:  1,
			Cursor: &queries.Cursor{After: "abc"},
		}).Return([]queries.OrderView{*first}, &queries.Cursor{After: "next"}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders?status=Scheduled&limit=1&cursor=abc", nil, "")

		var res resdto.OrderListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Len(res.Items, 1)
		s.Equal("next", res.NextCursor)
	})

	s.Run("no filter returns everything", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), queries.OrderFilter{}).
			Return([]queries.OrderView{*first, *second}, nil, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders", nil, "")

		var res resdto.OrderListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Require().Len(res.Items, 2)
		s.Equal(queries.ResourceNameNotAssigned, res.Items[1].ResourceName)
		s.Nil(res.Items[1].ResourceID)
		s.Empty(res.NextCursor)
	})

	s.Run("empty list encodes as array", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).Return([]queries.OrderView{}, nil, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders", nil, "")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"items":[]}`, rec.Body.String())
	})

	s.Run("unknown status is a bad request", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
			Return(nil, nil, errs.Wrapf(queries.ErrInvalidFilter, "status %q", "Lost"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders?status=Lost", nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, api.MsgInvalidRequest)
	})

	s.Run("limit above maximum", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders?limit=500", nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, api.MsgInvalidRequest)
	})
}

func (s *OrderHandlerTestSuite) TestGet() {
	view := builder.NewOrderBuilder().BuildView()

	s.Run("found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+view.ID, nil, "")

		var res resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal(view.Name, res.Name)
		s.Require().NotNil(res.StartTime)
		s.True(view.StartTime.Equal(*res.StartTime))
	})

	s.Run("unknown id", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, errs.ErrOrderNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/missing", nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, api.MsgOrderNotFound)
	})
}

// ================================================================================
// TestUpdate / TestDelete
// ================================================================================

func (s *OrderHandlerTestSuite) TestUpdate() {
	b := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) { b.Status = order.StatusCompleted })
	view := b.BuildView()

	s.Run("partial body becomes a patch", func() {
		completed := string(order.StatusCompleted)
		s.mockCommands.EXPECT().Update(gomock.Any(), view.ID, order.Patch{Status: &completed}).
			DoAndReturn(func(_ any, _ string, _ order.Patch) (*order.Order, error) {
				o := b.BuildDomain()
				return &o, nil
			})
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/orders/"+view.ID,
			map[string]any{"status": "Completed"}, "")

		var res resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal(order.StatusCompleted, res.Status)
	})

	s.Run("empty string clears a field", func() {
		empty := ""
		s.mockCommands.EXPECT().Update(gomock.Any(), view.ID, order.Patch{ResourceID: &empty}).
			Return(nil, validationErr(order.ValidationErrors{{Field: "resourceId", Message: order.MsgScheduledIncomplete}}))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/orders/"+view.ID,
			map[string]any{"resourceId": ""}, "")

		httptest.AssertFieldErrors(s.T(), rec, []httptest.FieldError{
			{Field: "resourceId", Message: order.MsgScheduledIncomplete},
		})
	})

	s.Run("unknown id", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), "missing", gomock.Any()).Return(nil, errs.ErrOrderNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/orders/missing",
			map[string]any{"name": "Renamed"}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, api.MsgOrderNotFound)
	})
}

func (s *OrderHandlerTestSuite) TestDelete() {
	s.Run("deleted", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), "ord-1").Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/orders/ord-1", nil, "")

		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	s.Run("unknown id under fail policy", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), "missing").Return(errs.ErrOrderNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/orders/missing", nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, api.MsgOrderNotFound)
	})
}
