// Package dashboard computes the derived views shown on the scheduling
// dashboard. Every function is pure and recomputes from the slices it is
// given.
package dashboard

import (
	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
)

type StatusCount struct {
	Status order.Status `json:"status"`
	Count  int          `json:"count"`
}

type Utilization struct {
	ResourceID      string `json:"resourceId"`
	ResourceName    string `json:"resourceName"`
	ScheduledCount  int    `json:"scheduled"`
	InProgressCount int    `json:"inProgress"`
}

type Summary struct {
	Total      int `json:"total"`
	Scheduled  int `json:"scheduled"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// StatusCounts returns one entry per status, all initialised to zero. Orders
// carrying an unknown status are not counted.
func StatusCounts(orders []order.Order) map[order.Status]int {
	counts := make(map[order.Status]int, len(order.AllStatuses()))
	for _, s := range order.AllStatuses() {
		counts[s] = 0
	}
	for _, o := range orders {
		if _, ok := counts[o.Status]; ok {
			counts[o.Status]++
		}
	}
	return counts
}

// StatusBreakdown is StatusCounts in canonical status order.
func StatusBreakdown(orders []order.Order) []StatusCount {
	counts := StatusCounts(orders)
	out := make([]StatusCount, 0, len(counts))
	for _, s := range order.AllStatuses() {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

// ResourceUtilization yields one row per resource, in resource order.
func ResourceUtilization(orders []order.Order, resources []resource.Resource) []Utilization {
	index := make(map[string]int, len(resources))
	out := make([]Utilization, len(resources))
	for i, r := range resources {
		out[i] = Utilization{ResourceID: r.ID, ResourceName: r.Name}
		index[r.ID] = i
	}

	for _, o := range orders {
		if o.ResourceID == nil {
			continue
		}
		i, ok := index[*o.ResourceID]
		if !ok {
			continue
		}
		switch o.Status {
		case order.StatusScheduled:
			out[i].ScheduledCount++
		case order.StatusInProgress:
			out[i].InProgressCount++
		}
	}
	return out
}

func Summarize(orders []order.Order) Summary {
	counts := StatusCounts(orders)
	return Summary{
		Total:      len(orders),
		Scheduled:  counts[order.StatusScheduled],
		InProgress: counts[order.StatusInProgress],
		Completed:  counts[order.StatusCompleted],
	}
}
