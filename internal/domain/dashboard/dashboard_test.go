//go:build unit

package dashboard_test

import (
	"fmt"
	"testing"

	"shop-order-scheduler/internal/domain/dashboard"
	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/pkg/ptr"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func mkOrder(status order.Status, resourceID string) order.Order {
	o := order.Order{Name: "Order", Description: "Order desc", Status: status}
	if resourceID != "" {
		o.ResourceID = ptr.Of(resourceID)
	}
	return o
}

func TestStatusCounts(t *testing.T) {
	t.Run("empty input yields all five keys at zero", func(t *testing.T) {
		counts := dashboard.StatusCounts(nil)
		assert.Len(t, counts, 5)
		for _, s := range order.AllStatuses() {
			assert.Equal(t, 0, counts[s], s)
		}
	})

	t.Run("total equals number of orders", func(t *testing.T) {
		statuses := order.AllStatuses()
		for n := 0; n < 40; n += 7 {
			orders := make([]order.Order, n)
			for i := range orders {
				orders[i] = mkOrder(statuses[(i*3)%len(statuses)], "")
			}
			total := 0
			for _, c := range dashboard.StatusCounts(orders) {
				total += c
			}
			assert.Equal(t, n, total, fmt.Sprintf("n=%d", n))
		}
	})
}

func TestStatusBreakdownOrder(t *testing.T) {
	orders := []order.Order{
		mkOrder(order.StatusCancelled, ""),
		mkOrder(order.StatusPending, ""),
		mkOrder(order.StatusPending, ""),
	}
	want := []dashboard.StatusCount{
		{Status: order.StatusPending, Count: 2},
		{Status: order.StatusScheduled, Count: 0},
		{Status: order.StatusInProgress, Count: 0},
		{Status: order.StatusCompleted, Count: 0},
		{Status: order.StatusCancelled, Count: 1},
	}
	if diff := cmp.Diff(want, dashboard.StatusBreakdown(orders)); diff != "" {
		t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
	}
}

func TestResourceUtilization(t *testing.T) {
	resources := resource.DefaultSeed()
	orders := []order.Order{
		mkOrder(order.StatusScheduled, "2"),
		mkOrder(order.StatusScheduled, "2"),
		mkOrder(order.StatusInProgress, "2"),
		mkOrder(order.StatusInProgress, "4"),
		mkOrder(order.StatusCompleted, "4"),
		mkOrder(order.StatusScheduled, "does-not-exist"),
		mkOrder(order.StatusPending, ""),
	}

	got := dashboard.ResourceUtilization(orders, resources)
	want := []dashboard.Utilization{
		{ResourceID: "1", ResourceName: "CNC Machine 1"},
		{ResourceID: "2", ResourceName: "Assembly Line A", ScheduledCount: 2, InProgressCount: 1},
		{ResourceID: "3", ResourceName: "Paint Booth 2"},
		{ResourceID: "4", ResourceName: "Quality Control Station", InProgressCount: 1},
		{ResourceID: "5", ResourceName: "Packaging Line B"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("utilization mismatch (-want +got):\n%s", diff)
	}

	t.Run("length and order follow resources regardless of orders", func(t *testing.T) {
		reversed := make([]resource.Resource, len(resources))
		for i, r := range resources {
			reversed[len(resources)-1-i] = r
		}
		rows := dashboard.ResourceUtilization(nil, reversed)
		assert.Len(t, rows, len(reversed))
		for i := range rows {
			assert.Equal(t, reversed[i].ID, rows[i].ResourceID)
		}
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		again := dashboard.ResourceUtilization(orders, resources)
		assert.Equal(t, got, again)
	})
}

func TestSummarize(t *testing.T) {
	orders := []order.Order{
		mkOrder(order.StatusScheduled, "1"),
		mkOrder(order.StatusInProgress, "2"),
		mkOrder(order.StatusInProgress, "2"),
		mkOrder(order.StatusCompleted, ""),
		mkOrder(order.StatusCancelled, ""),
	}
	assert.Equal(t, dashboard.Summary{Total: 5, Scheduled: 1, InProgress: 2, Completed: 1}, dashboard.Summarize(orders))
}
