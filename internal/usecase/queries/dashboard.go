package queries

import (
	"context"

	"shop-order-scheduler/internal/domain/dashboard"
)

type DashboardView struct {
	Summary      dashboard.Summary       `json:"summary"`
	StatusCounts []dashboard.StatusCount `json:"statusCounts"`
	Utilization  []dashboard.Utilization `json:"utilization"`
}

type DashboardQueries interface {
	Overview(ctx context.Context) (*DashboardView, error)
	StatusCounts(ctx context.Context) ([]dashboard.StatusCount, error)
	ResourceUtilization(ctx context.Context) ([]dashboard.Utilization, error)
	Summary(ctx context.Context) (*dashboard.Summary, error)
}

// dashboardQueriesImpl recomputes every view from the stores on each call.
type dashboardQueriesImpl struct {
	orders    OrderReader
	resources ResourceReader
}

func NewDashboardQueries(orders OrderReader, resources ResourceReader) DashboardQueries {
	return &dashboardQueriesImpl{orders: orders, resources: resources}
}

func (q *dashboardQueriesImpl) Overview(_ context.Context) (*DashboardView, error) {
	orders := q.orders.List()
	return &DashboardView{
		Summary:      dashboard.Summarize(orders),
		StatusCounts: dashboard.StatusBreakdown(orders),
		Utilization:  dashboard.ResourceUtilization(orders, q.resources.List()),
	}, nil
}

func (q *dashboardQueriesImpl) StatusCounts(_ context.Context) ([]dashboard.StatusCount, error) {
	return dashboard.StatusBreakdown(q.orders.List()), nil
}

func (q *dashboardQueriesImpl) ResourceUtilization(_ context.Context) ([]dashboard.Utilization, error) {
	return dashboard.ResourceUtilization(q.orders.List(), q.resources.List()), nil
}

func (q *dashboardQueriesImpl) Summary(_ context.Context) (*dashboard.Summary, error) {
	s := dashboard.Summarize(q.orders.List())
	return &s, nil
}
