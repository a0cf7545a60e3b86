//go:build unit

package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-order-scheduler/internal/domain/dashboard"
	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/usecase/queries"

	"github.com/cockroachdb/errors"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() *queries.DashboardView {
	return &queries.DashboardView{
		Summary: dashboard.Summary{Total: 4, Scheduled: 2, InProgress: 1, Completed: 1},
		StatusCounts: []dashboard.StatusCount{
			{Status: order.StatusPending, Count: 0},
			{Status: order.StatusScheduled, Count: 2},
		},
		Utilization: []dashboard.Utilization{
			{ResourceID: "1", ResourceName: "CNC Machine 1", ScheduledCount: 2, InProgressCount: 1},
		},
	}
}

type stubFetcher struct {
	view *queries.DashboardView
	err  error
}

func (s stubFetcher) Dashboard(context.Context) (*queries.DashboardView, error) {
	return s.view, s.err
}

func TestClientDashboard(t *testing.T) {
	t.Run("decodes the overview", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/dashboard", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(sampleView())
		}))
		defer srv.Close()

		view, err := NewClient(srv.URL + "/").Dashboard(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 4, view.Summary.Total)
		require.Len(t, view.Utilization, 1)
		assert.Equal(t, "CNC Machine 1", view.Utilization[0].ResourceName)
	})

	t.Run("server error surfaces status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Dashboard(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})
}

func TestApp(t *testing.T) {
	t.Run("fetch command delivers the view", func(t *testing.T) {
		a := newApp(stubFetcher{view: sampleView()}, "http://api", 0)

		msg := a.fetch()()

		got, ok := msg.(dashboardMsg)
		require.True(t, ok)
		require.NoError(t, got.err)
		assert.Equal(t, 4, got.view.Summary.Total)
	})

	t.Run("renders summary and utilization after a response", func(t *testing.T) {
		a := newApp(stubFetcher{}, "http://api", 0)

		_, cmd := a.Update(dashboardMsg{view: sampleView()})

		assert.NotNil(t, cmd)
		assert.False(t, a.loading)
		out := a.View()
		assert.Contains(t, out, "Production Orders")
		assert.Contains(t, out, "CNC Machine 1")
		assert.Contains(t, out, "Scheduled")
	})

	t.Run("keeps the last view when a refresh fails", func(t *testing.T) {
		a := newApp(stubFetcher{}, "http://api", 0)
		a.Update(dashboardMsg{view: sampleView()})

		a.Update(dashboardMsg{err: errors.New("connection refused")})

		require.NotNil(t, a.view)
		out := a.View()
		assert.Contains(t, out, "connection refused")
		assert.Contains(t, out, "CNC Machine 1")
	})

	t.Run("q quits", func(t *testing.T) {
		a := newApp(stubFetcher{}, "http://api", 0)

		_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})
}
