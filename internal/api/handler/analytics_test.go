package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/commerce-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/commerce-analytics-api/internal/domain"
	"github.com/vfg2006/commerce-analytics-api/internal/usecases/analyzing/mocks"
	"github.com/vfg2006/commerce-analytics-api/pkg/log"
	"github.com/vfg2006/commerce-analytics-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

func newAnalyticsRouter(t *testing.T) (http.Handler, *mocks.MockAnalyzer, *metrics.Metrics) {
	t.Helper()
	log.SetupTestLogger()

	ctrl := gomock.NewController(t)
	analyzer := mocks.NewMockAnalyzer(ctrl)
	m := metrics.New()

	return router.New(router.WithRoutes(Analytics(analyzer)...), router.WithMetrics(m)), analyzer, m
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIntervalEndpoints_RejectInvalidInterval(t *testing.T) {
	paths := []string{"/total-sales", "/sales-growth", "/new-customers", "/repeat-customers"}
	queries := []string{"", "?interval=", "?interval=weekly", "?interval=MONTHLY"}

	for _, path := range paths {
		for _, query := range queries {
			t.Run(path+query, func(t *testing.T) {
				// Nenhuma chamada é esperada no mock: o datastore não pode ser acessado
				h, _, _ := newAnalyticsRouter(t)

				rec := get(h, path+query)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, InvalidIntervalMessage, strings.TrimSpace(rec.Body.String()))
			})
		}
	}
}

func TestGetTotalSales(t *testing.T) {
	h, analyzer, m := newAnalyticsRouter(t)

	analyzer.EXPECT().
		TotalSales(gomock.Any(), domain.IntervalMonthly).
		Return([]domain.TotalSales{
			{ID: domain.PeriodKey{Year: 2023, Month: 3}, TotalSales: 170.5},
			{ID: domain.PeriodKey{Year: 2023, Month: 4}, TotalSales: 30},
		}, nil)

	rec := get(h, "/total-sales?interval=monthly")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[
		{"_id": {"year": 2023, "month": 3}, "totalSales": 170.5},
		{"_id": {"year": 2023, "month": 4}, "totalSales": 30}
	]`, rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/total-sales", "200")))
}

func TestGetSalesGrowth(t *testing.T) {
	h, analyzer, _ := newAnalyticsRouter(t)

	analyzer.EXPECT().
		SalesGrowth(gomock.Any(), domain.IntervalQuarterly).
		Return([]domain.SalesGrowth{
			{Period: domain.PeriodKey{Year: 2023, Quarter: 1}, TotalSales: 100, GrowthRate: 0},
			{Period: domain.PeriodKey{Year: 2023, Quarter: 2}, TotalSales: 150, GrowthRate: 50},
		}, nil)

	rec := get(h, "/sales-growth?interval=quarterly")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"period": {"year": 2023, "quarter": 1}, "totalSales": 100, "growthRate": 0},
		{"period": {"year": 2023, "quarter": 2}, "totalSales": 150, "growthRate": 50}
	]`, rec.Body.String())
}

func TestGetNewCustomers(t *testing.T) {
	h, analyzer, _ := newAnalyticsRouter(t)

	analyzer.EXPECT().
		NewCustomers(gomock.Any(), domain.IntervalMonthly).
		Return([]domain.NewCustomers{
			{ID: domain.PeriodKey{Year: 2023, Month: 3}, Count: 2},
			{ID: domain.PeriodKey{Year: 2023, Month: 4}, Count: 1},
		}, nil)

	rec := get(h, "/new-customers?interval=monthly")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"_id": {"year": 2023, "month": 3}, "count": 2},
		{"_id": {"year": 2023, "month": 4}, "count": 1}
	]`, rec.Body.String())
}

func TestGetRepeatCustomers(t *testing.T) {
	h, analyzer, _ := newAnalyticsRouter(t)

	analyzer.EXPECT().
		RepeatCustomers(gomock.Any(), domain.IntervalDaily).
		Return([]domain.RepeatCustomers{
			{ID: domain.PeriodKey{Year: 2023, Month: 3, Day: 5}, RepeatCustomers: 1},
		}, nil)

	rec := get(h, "/repeat-customers?interval=daily")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"_id": {"year": 2023, "month": 3, "day": 5}, "repeatCustomers": 1}]`, rec.Body.String())
}

func TestGetCustomerLTVCohorts(t *testing.T) {
	h, analyzer, _ := newAnalyticsRouter(t)

	analyzer.EXPECT().
		CustomerLTVCohorts(gomock.Any()).
		Return([]domain.CohortLTV{{Cohort: "2023-03", AvgLTV: 85.25}}, nil)

	// interval é ignorado neste endpoint
	rec := get(h, "/customer-ltv-cohorts?interval=weekly")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"_id": "2023-03", "avgLTV": 85.25}]`, rec.Body.String())
}

func TestGetGeographicalDistribution(t *testing.T) {
	h, analyzer, _ := newAnalyticsRouter(t)

	recife := "Recife"
	analyzer.EXPECT().
		GeographicalDistribution(gomock.Any()).
		Return([]domain.CityDistribution{
			{City: &recife, CustomerCount: 3},
			{City: nil, CustomerCount: 2},
		}, nil)

	rec := get(h, "/geographical-distribution")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"_id": "Recife", "customerCount": 3}, {"_id": null, "customerCount": 2}]`, rec.Body.String())
}

func TestAnalyticsEndpoints_EmptyResultIsEmptyArray(t *testing.T) {
	h, analyzer, _ := newAnalyticsRouter(t)

	analyzer.EXPECT().TotalSales(gomock.Any(), domain.IntervalYearly).Return(nil, nil)
	analyzer.EXPECT().GeographicalDistribution(gomock.Any()).Return([]domain.CityDistribution{}, nil)

	rec := get(h, "/total-sales?interval=yearly")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	rec = get(h, "/geographical-distribution")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestAnalyticsEndpoints_ServiceErrors(t *testing.T) {
	dbErr := errors.New("connection refused")

	tests := []struct {
		path   string
		setup  func(a *mocks.MockAnalyzer)
		prefix string
	}{
		{
			path:   "/total-sales?interval=monthly",
			setup:  func(a *mocks.MockAnalyzer) { a.EXPECT().TotalSales(gomock.Any(), gomock.Any()).Return(nil, dbErr) },
			prefix: "Error fetching total sales: ",
		},
		{
			path:   "/sales-growth?interval=monthly",
			setup:  func(a *mocks.MockAnalyzer) { a.EXPECT().SalesGrowth(gomock.Any(), gomock.Any()).Return(nil, dbErr) },
			prefix: "Error fetching sales growth: ",
		},
		{
			path:   "/new-customers?interval=monthly",
			setup:  func(a *mocks.MockAnalyzer) { a.EXPECT().NewCustomers(gomock.Any(), gomock.Any()).Return(nil, dbErr) },
			prefix: "Error fetching new customers: ",
		},
		{
			path:   "/repeat-customers?interval=monthly",
			setup:  func(a *mocks.MockAnalyzer) { a.EXPECT().RepeatCustomers(gomock.Any(), gomock.Any()).Return(nil, dbErr) },
			prefix: "Error fetching repeat customers: ",
		},
		{
			path:   "/customer-ltv-cohorts",
			setup:  func(a *mocks.MockAnalyzer) { a.EXPECT().CustomerLTVCohorts(gomock.Any()).Return(nil, dbErr) },
			prefix: "Error fetching customer lifetime value by cohorts: ",
		},
		{
			path:   "/geographical-distribution",
			setup:  func(a *mocks.MockAnalyzer) { a.EXPECT().GeographicalDistribution(gomock.Any()).Return(nil, dbErr) },
			prefix: "Error fetching geographical distribution: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			h, analyzer, _ := newAnalyticsRouter(t)
			tt.setup(analyzer)
			hook := logtest.NewGlobal()
			t.Cleanup(func() { logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks)) })

			rec := get(h, tt.path)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.prefix+dbErr.Error(), strings.TrimSpace(rec.Body.String()))

			// Uma única linha de erro por falha
			var errorsLogged []*logrus.Entry
			for _, entry := range hook.AllEntries() {
				if entry.Level <= logrus.ErrorLevel {
					errorsLogged = append(errorsLogged, entry)
				}
			}
			require.Len(t, errorsLogged, 1)
			assert.Equal(t, "analytics: erro ao buscar métricas", errorsLogged[0].Message)
		})
	}
}

func TestAnalyticsEndpoints_ServiceInvalidIntervalIsBadRequest(t *testing.T) {
	h, analyzer, _ := newAnalyticsRouter(t)

	analyzer.EXPECT().TotalSales(gomock.Any(), gomock.Any()).Return(nil, domain.ErrInvalidInterval)

	rec := get(h, "/total-sales?interval=monthly")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, InvalidIntervalMessage, strings.TrimSpace(rec.Body.String()))
}

type fakeDatastoreStatus struct {
	healthy   bool
	lastCheck time.Time
	lastErr   error
}

func (f fakeDatastoreStatus) Status() (bool, time.Time, error) {
	return f.healthy, f.lastCheck, f.lastErr
}

func TestHealthcheckHandler(t *testing.T) {
	h := router.New(router.WithRoutes(Healthcheck(nil)...))

	rec := get(h, "/healthcheck")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "datastore")
}

func TestHealthcheckHandler_DatastoreStatus(t *testing.T) {
	checkedAt := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status fakeDatastoreStatus
		want   string
	}{
		{name: "sem verificação", status: fakeDatastoreStatus{}, want: "datastore: unknown"},
		{name: "disponível", status: fakeDatastoreStatus{healthy: true, lastCheck: checkedAt}, want: "datastore: up (verificado em 2024-03-05T10:00:00Z)"},
		{
			name:   "indisponível",
			status: fakeDatastoreStatus{lastCheck: checkedAt, lastErr: errors.New("connection refused")},
			want:   "datastore: down (verificado em 2024-03-05T10:00:00Z): connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := router.New(router.WithRoutes(Healthcheck(tt.status)...))

			rec := get(h, "/healthcheck")

			// O datastore fora não derruba o healthcheck
			assert.Equal(t, http.StatusOK, rec.Code)
			lines := strings.Split(rec.Body.String(), "\n")
			require.Len(t, lines, 2)
			assert.NotEmpty(t, lines[0])
			assert.Equal(t, tt.want, lines[1])
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	m.ObserveAggregation("total-sales", "ok", 0)
	h := router.New(router.WithRoutes(Metrics(m)...))

	rec := get(h, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `aggregations_total{plan="total-sales",result="ok"} 1`)
}
