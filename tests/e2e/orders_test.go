//go:build e2e

package e2e

import (
	"net/http"
	"testing"

	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/handler/api"
	resdto "shop-order-scheduler/internal/handler/dto/response"
	"shop-order-scheduler/tests/common/builder"
	"shop-order-scheduler/tests/common/dbtest"
	"shop-order-scheduler/tests/common/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrdersE2ESuite struct {
	SharedSuite
}

func TestOrdersE2E(t *testing.T) {
	suite.Run(t, new(OrdersE2ESuite))
}

func (s *OrdersE2ESuite) createOrder(b *builder.OrderBuilder, key string) resdto.OrderResponse {
	headers := map[string]string{}
	if key != "" {
		headers[api.HeaderIdempotencyKey] = key
	}
	rec := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/orders", b.BuildCreateRequestDTO(), headers)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var res resdto.OrderResponse
	httptest.DecodeResponseBody(s.T(), rec.Body, &res)
	return res
}

func (s *OrdersE2ESuite) resourceStatus(id string) resource.Status {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/resources/"+id, nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var res resdto.ResourceResponse
	httptest.DecodeResponseBody(s.T(), rec.Body, &res)
	return res.Status
}

func (s *OrdersE2ESuite) TestSchedulingLifecycle() {
	s.Run("seeded resources are journaled on first start", func() {
		n, err := dbtest.CountRows(s.DB, "resources")
		s.Require().NoError(err)
		s.Equal(len(resource.DefaultSeed()), n)
	})

	s.Run("scheduled order occupies its resource and survives restart", func() {
		created := s.createOrder(builder.NewOrderBuilder(), "")
		s.Equal(order.StatusScheduled, created.Status)
		s.Equal("CNC Machine 1", created.ResourceName)
		s.Equal(resource.StatusBusy, s.resourceStatus("1"))

		s.Restart()

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/orders/"+created.ID, nil, "")
		s.Require().Equal(http.StatusOK, rec.Code)
		var got resdto.OrderResponse
		httptest.DecodeResponseBody(s.T(), rec.Body, &got)
		s.Equal(created.Name, got.Name)
		s.Equal(resource.StatusBusy, s.resourceStatus("1"))
	})

	s.Run("completing an order frees the resource", func() {
		created := s.createOrder(builder.NewOrderBuilder(), "")

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPatch, "/api/orders/"+created.ID,
			map[string]any{"status": string(order.StatusCompleted)}, "")

		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		s.Equal(resource.StatusAvailable, s.resourceStatus("1"))
	})

	s.Run("deleting an order frees the resource and removes the row", func() {
		created := s.createOrder(builder.NewOrderBuilder(), "")

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, "/api/orders/"+created.ID, nil, "")

		s.Require().Equal(http.StatusNoContent, rec.Code)
		s.Equal(resource.StatusAvailable, s.resourceStatus("1"))
		n, err := dbtest.CountRows(s.DB, "production_orders")
		s.Require().NoError(err)
		s.Zero(n)
	})

	s.Run("invalid order is rejected without writing", func() {
		b := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) { b.Name = "ab" })

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/orders", b.BuildCreateRequestDTO(), "")

		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		n, err := dbtest.CountRows(s.DB, "production_orders")
		s.Require().NoError(err)
		s.Zero(n)
	})
}

func (s *OrdersE2ESuite) TestIdempotentCreate() {
	s.Run("replay returns the original order", func() {
		key := uuid.NewString()
		first := s.createOrder(builder.NewOrderBuilder().Pending(), key)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/orders",
			builder.NewOrderBuilder().Pending().BuildCreateRequestDTO(),
			map[string]string{api.HeaderIdempotencyKey: key})

		require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())
		s.Equal("true", rec.Header().Get(api.HeaderIdempotentReplayed))
		var replay resdto.OrderResponse
		httptest.DecodeResponseBody(s.T(), rec.Body, &replay)
		s.Equal(first.ID, replay.ID)

		n, err := dbtest.CountRows(s.DB, "production_orders")
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("same key with a different body conflicts", func() {
		key := uuid.NewString()
		s.createOrder(builder.NewOrderBuilder().Pending(), key)

		other := builder.NewOrderBuilder().Pending().With(func(b *builder.OrderBuilder) { b.Name = "Another batch" })
		rec := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/orders",
			other.BuildCreateRequestDTO(), map[string]string{api.HeaderIdempotencyKey: key})

		s.Equal(http.StatusConflict, rec.Code)
	})
}
