package analyzing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/commerce-analytics-api/internal/config"
	"github.com/vfg2006/commerce-analytics-api/internal/domain"
	"github.com/vfg2006/commerce-analytics-api/internal/pipeline"
	"github.com/vfg2006/commerce-analytics-api/internal/usecases/analyzing/mocks"
	"github.com/vfg2006/commerce-analytics-api/pkg/log"
	"github.com/vfg2006/commerce-analytics-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T, timeout time.Duration) (Analyzer, *mocks.MockExecutor, *metrics.Metrics) {
	t.Helper()

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	m := metrics.New()

	cfg := &config.Config{Analytics: config.Analytics{QueryTimeout: timeout}}
	return NewService(cfg, executor, m), executor, m
}

func monthRow(year, month int64, column string, value float64) pipeline.Row {
	return pipeline.Row{
		Key: []pipeline.KeyValue{
			{Name: "year", Value: year},
			{Name: "month", Value: month},
		},
		Values: map[string]float64{column: value},
	}
}

func TestService_TotalSales(t *testing.T) {
	service, executor, m := newTestService(t, time.Second)

	plan, err := pipeline.TotalSales(domain.IntervalMonthly)
	require.NoError(t, err)

	executor.EXPECT().
		Aggregate(gomock.Any(), plan).
		Return([]pipeline.Row{
			monthRow(2023, 3, pipeline.ColTotalSales, 170.5),
			monthRow(2023, 4, pipeline.ColTotalSales, 30),
		}, nil)

	result, err := service.TotalSales(context.Background(), domain.IntervalMonthly)
	require.NoError(t, err)

	assert.Equal(t, []domain.TotalSales{
		{ID: domain.PeriodKey{Year: 2023, Month: 3}, TotalSales: 170.5},
		{ID: domain.PeriodKey{Year: 2023, Month: 4}, TotalSales: 30},
	}, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AggregationsTotal.WithLabelValues(pipeline.TotalSalesPlan, "ok")))
}

func TestService_InvalidIntervalSkipsExecutor(t *testing.T) {
	service, _, _ := newTestService(t, time.Second)
	ctx := context.Background()
	invalid := domain.Interval("weekly")

	_, err := service.TotalSales(ctx, invalid)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	_, err = service.SalesGrowth(ctx, invalid)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	_, err = service.NewCustomers(ctx, invalid)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	_, err = service.RepeatCustomers(ctx, invalid)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestService_SalesGrowth(t *testing.T) {
	service, executor, _ := newTestService(t, time.Second)

	plan, err := pipeline.SalesGrowth(domain.IntervalMonthly)
	require.NoError(t, err)

	executor.EXPECT().
		Aggregate(gomock.Any(), plan).
		Return([]pipeline.Row{
			monthRow(2023, 1, pipeline.ColTotalSales, 100),
			monthRow(2023, 2, pipeline.ColTotalSales, 150),
			monthRow(2023, 3, pipeline.ColTotalSales, 150),
			monthRow(2023, 4, pipeline.ColTotalSales, 0),
		}, nil)

	result, err := service.SalesGrowth(context.Background(), domain.IntervalMonthly)
	require.NoError(t, err)
	require.Len(t, result, 4)

	rates := make([]float64, 0, len(result))
	for _, r := range result {
		rates = append(rates, r.GrowthRate)
	}
	assert.Equal(t, []float64{0, 50, 0, -100}, rates)
	assert.Equal(t, domain.PeriodKey{Year: 2023, Month: 2}, result[1].Period)
	assert.Equal(t, 150.0, result[1].TotalSales)
}

func TestService_NewCustomers(t *testing.T) {
	service, executor, _ := newTestService(t, time.Second)

	plan, err := pipeline.NewCustomers(domain.IntervalMonthly)
	require.NoError(t, err)

	executor.EXPECT().
		Aggregate(gomock.Any(), plan).
		Return([]pipeline.Row{
			monthRow(2023, 3, pipeline.ColCount, 2),
			monthRow(2023, 4, pipeline.ColCount, 1),
		}, nil)

	result, err := service.NewCustomers(context.Background(), domain.IntervalMonthly)
	require.NoError(t, err)
	assert.Equal(t, []domain.NewCustomers{
		{ID: domain.PeriodKey{Year: 2023, Month: 3}, Count: 2},
		{ID: domain.PeriodKey{Year: 2023, Month: 4}, Count: 1},
	}, result)
}

func TestService_RepeatCustomers(t *testing.T) {
	service, executor, _ := newTestService(t, time.Second)

	plan, err := pipeline.RepeatCustomers(domain.IntervalYearly)
	require.NoError(t, err)

	executor.EXPECT().
		Aggregate(gomock.Any(), plan).
		Return([]pipeline.Row{{
			Key:    []pipeline.KeyValue{{Name: "year", Value: int64(2023)}},
			Values: map[string]float64{pipeline.ColRepeatCustomers: 4},
		}}, nil)

	result, err := service.RepeatCustomers(context.Background(), domain.IntervalYearly)
	require.NoError(t, err)
	assert.Equal(t, []domain.RepeatCustomers{
		{ID: domain.PeriodKey{Year: 2023}, RepeatCustomers: 4},
	}, result)
}

func TestService_CustomerLTVCohorts(t *testing.T) {
	service, executor, _ := newTestService(t, time.Second)

	executor.EXPECT().
		Aggregate(gomock.Any(), pipeline.CustomerLTVCohorts()).
		Return([]pipeline.Row{
			{Key: []pipeline.KeyValue{{Name: pipeline.ColCohort, Value: nil}}, Values: map[string]float64{pipeline.ColAvgLTV: 5}},
			{Key: []pipeline.KeyValue{{Name: pipeline.ColCohort, Value: "2023-01"}}, Values: map[string]float64{pipeline.ColAvgLTV: 30}},
		}, nil)

	result, err := service.CustomerLTVCohorts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.CohortLTV{{Cohort: "2023-01", AvgLTV: 30}}, result)
}

func TestService_GeographicalDistribution(t *testing.T) {
	service, executor, _ := newTestService(t, time.Second)

	executor.EXPECT().
		Aggregate(gomock.Any(), pipeline.GeographicalDistribution()).
		Return([]pipeline.Row{
			{Key: []pipeline.KeyValue{{Name: pipeline.ColCity, Value: "Recife"}}, Values: map[string]float64{pipeline.ColCustomerCount: 3}},
			{Key: []pipeline.KeyValue{{Name: pipeline.ColCity, Value: nil}}, Values: map[string]float64{pipeline.ColCustomerCount: 2}},
		}, nil)

	result, err := service.GeographicalDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)

	require.NotNil(t, result[0].City)
	assert.Equal(t, "Recife", *result[0].City)
	assert.Equal(t, int64(3), result[0].CustomerCount)
	assert.Nil(t, result[1].City)
	assert.Equal(t, int64(2), result[1].CustomerCount)
}

func TestService_EmptyResult(t *testing.T) {
	service, executor, _ := newTestService(t, time.Second)

	executor.EXPECT().Aggregate(gomock.Any(), gomock.Any()).Return(nil, nil)

	result, err := service.GeographicalDistribution(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func errorEntries(hook *logtest.Hook) []logrus.Entry {
	var out []logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level <= logrus.ErrorLevel {
			out = append(out, *entry)
		}
	}
	return out
}

func newLogHook(t *testing.T) *logtest.Hook {
	t.Helper()
	log.SetupTestLogger()

	hook := logtest.NewGlobal()
	t.Cleanup(func() { logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks)) })
	return hook
}

func TestService_ExecutorError(t *testing.T) {
	hook := newLogHook(t)
	service, executor, m := newTestService(t, time.Second)
	dbErr := errors.New("connection refused")

	executor.EXPECT().Aggregate(gomock.Any(), gomock.Any()).Return(nil, dbErr)

	_, err := service.TotalSales(context.Background(), domain.IntervalYearly)
	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AggregationsTotal.WithLabelValues(pipeline.TotalSalesPlan, "error")))

	// A falha é devolvida ao handler, que é quem registra o erro
	assert.Empty(t, errorEntries(hook))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Equal(t, pipeline.TotalSalesPlan, hook.LastEntry().Data["plan"])
}

func TestService_Timeout(t *testing.T) {
	hook := newLogHook(t)
	service, executor, m := newTestService(t, 10*time.Millisecond)

	executor.EXPECT().
		Aggregate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ pipeline.Plan) ([]pipeline.Row, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	_, err := service.CustomerLTVCohorts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "tempo limite")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AggregationsTotal.WithLabelValues(pipeline.CustomerLTVPlan, "timeout")))
	assert.Empty(t, errorEntries(hook))
}

func TestService_WithoutTimeout(t *testing.T) {
	service, executor, _ := newTestService(t, 0)

	executor.EXPECT().
		Aggregate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ pipeline.Plan) ([]pipeline.Row, error) {
			_, hasDeadline := ctx.Deadline()
			assert.False(t, hasDeadline)
			return nil, nil
		})

	_, err := service.GeographicalDistribution(context.Background())
	assert.NoError(t, err)
}
