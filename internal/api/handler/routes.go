package handler

import (
	"net/http"

	"github.com/vfg2006/commerce-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/commerce-analytics-api/internal/usecases/analyzing"
	"github.com/vfg2006/commerce-analytics-api/pkg/metrics"
)

func Healthcheck(status DatastoreStatus) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(status),
		},
	}
}

func Metrics(m *metrics.Metrics) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: m.Handler(),
		},
	}
}

func Analytics(service analyzing.Analyzer) []router.Route {
	return []router.Route{
		{
			Path:    "/total-sales",
			Method:  http.MethodGet,
			Handler: GetTotalSales(service),
		},
		{
			Path:    "/sales-growth",
			Method:  http.MethodGet,
			Handler: GetSalesGrowth(service),
		},
		{
			Path:    "/new-customers",
			Method:  http.MethodGet,
			Handler: GetNewCustomers(service),
		},
		{
			Path:    "/repeat-customers",
			Method:  http.MethodGet,
			Handler: GetRepeatCustomers(service),
		},
		{
			Path:    "/customer-ltv-cohorts",
			Method:  http.MethodGet,
			Handler: GetCustomerLTVCohorts(service),
		},
		{
			Path:    "/geographical-distribution",
			Method:  http.MethodGet,
			Handler: GetGeographicalDistribution(service),
		},
	}
}
