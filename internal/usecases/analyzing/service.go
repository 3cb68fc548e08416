package analyzing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/commerce-analytics-api/internal/config"
	"github.com/vfg2006/commerce-analytics-api/internal/domain"
	"github.com/vfg2006/commerce-analytics-api/internal/pipeline"
	"github.com/vfg2006/commerce-analytics-api/pkg/log"
	"github.com/vfg2006/commerce-analytics-api/pkg/metrics"
)

type Service struct {
	executor Executor
	timeout  time.Duration
	metrics  *metrics.Metrics
}

func NewService(cfg *config.Config, executor Executor, m *metrics.Metrics) Analyzer {
	return &Service{
		executor: executor,
		timeout:  cfg.Analytics.QueryTimeout,
		metrics:  m,
	}
}

func (s *Service) TotalSales(ctx context.Context, interval domain.Interval) ([]domain.TotalSales, error) {
	plan, err := pipeline.TotalSales(interval)
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, plan)
	if err != nil {
		return nil, err
	}

	return toTotalSales(rows, interval), nil
}

func (s *Service) SalesGrowth(ctx context.Context, interval domain.Interval) ([]domain.SalesGrowth, error) {
	plan, err := pipeline.SalesGrowth(interval)
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, plan)
	if err != nil {
		return nil, err
	}

	return CalculateGrowth(toTotalSales(rows, interval)), nil
}

func (s *Service) NewCustomers(ctx context.Context, interval domain.Interval) ([]domain.NewCustomers, error) {
	plan, err := pipeline.NewCustomers(interval)
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, plan)
	if err != nil {
		return nil, err
	}

	result := make([]domain.NewCustomers, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.NewCustomers{
			ID:    periodKey(row, interval),
			Count: int64(row.Values[pipeline.ColCount]),
		})
	}
	return result, nil
}

func (s *Service) RepeatCustomers(ctx context.Context, interval domain.Interval) ([]domain.RepeatCustomers, error) {
	plan, err := pipeline.RepeatCustomers(interval)
	if err != nil {
		return nil, err
	}

	rows, err := s.run(ctx, plan)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RepeatCustomers, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.RepeatCustomers{
			ID:              periodKey(row, interval),
			RepeatCustomers: int64(row.Values[pipeline.ColRepeatCustomers]),
		})
	}
	return result, nil
}

func (s *Service) CustomerLTVCohorts(ctx context.Context) ([]domain.CohortLTV, error) {
	rows, err := s.run(ctx, pipeline.CustomerLTVCohorts())
	if err != nil {
		return nil, err
	}

	result := make([]domain.CohortLTV, 0, len(rows))
	for _, row := range rows {
		cohort := row.String(pipeline.ColCohort)
		if cohort == nil {
			continue
		}
		result = append(result, domain.CohortLTV{
			Cohort: *cohort,
			AvgLTV: row.Values[pipeline.ColAvgLTV],
		})
	}
	return result, nil
}

func (s *Service) GeographicalDistribution(ctx context.Context) ([]domain.CityDistribution, error) {
	rows, err := s.run(ctx, pipeline.GeographicalDistribution())
	if err != nil {
		return nil, err
	}

	result := make([]domain.CityDistribution, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.CityDistribution{
			City:          row.String(pipeline.ColCity),
			CustomerCount: int64(row.Values[pipeline.ColCustomerCount]),
		})
	}
	return result, nil
}

// run executa o plano com o timeout configurado. Falhas não são repetidas e
// são registradas como erro apenas pelo handler que as recebe.
func (s *Service) run(ctx context.Context, plan pipeline.Plan) ([]pipeline.Row, error) {
	logger := log.ForContext(ctx).WithField("plan", plan.Name)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := s.executor.Aggregate(ctx, plan)
	elapsed := time.Since(start)
	logger = logger.WithField("duration_ms", elapsed.Milliseconds())

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		s.metrics.ObserveAggregation(plan.Name, "timeout", elapsed)
		logger.Debug("analyzing: tempo limite da agregação excedido")
		return nil, fmt.Errorf("tempo limite de %s excedido na agregação: %w", s.timeout, err)
	case err != nil:
		s.metrics.ObserveAggregation(plan.Name, "error", elapsed)
		logger.Debug("analyzing: agregação falhou")
		return nil, err
	}

	s.metrics.ObserveAggregation(plan.Name, "ok", elapsed)
	logger.WithField("rows", len(rows)).Debug("analyzing: agregação concluída")

	return rows, nil
}

func periodKey(row pipeline.Row, interval domain.Interval) domain.PeriodKey {
	key := domain.PeriodKey{}
	for _, part := range interval.Parts() {
		key.Set(part, row.Int(string(part)))
	}
	return key
}

func toTotalSales(rows []pipeline.Row, interval domain.Interval) []domain.TotalSales {
	result := make([]domain.TotalSales, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.TotalSales{
			ID:         periodKey(row, interval),
			TotalSales: row.Values[pipeline.ColTotalSales],
		})
	}
	return result
}
