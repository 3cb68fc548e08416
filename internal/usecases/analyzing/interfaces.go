package analyzing

import (
	"context"

	"github.com/vfg2006/commerce-analytics-api/internal/domain"
	"github.com/vfg2006/commerce-analytics-api/internal/pipeline"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// Executor executa um plano de agregação no datastore e devolve as linhas agrupadas na ordem do plano
type Executor interface {
	Aggregate(ctx context.Context, plan pipeline.Plan) ([]pipeline.Row, error)
}

// Analyzer expõe as métricas de e-commerce consumidas pelos handlers HTTP
type Analyzer interface {
	// TotalSales soma o valor dos pedidos por período
	TotalSales(ctx context.Context, interval domain.Interval) ([]domain.TotalSales, error)

	// SalesGrowth retorna o total por período e a variação percentual em relação ao período anterior
	SalesGrowth(ctx context.Context, interval domain.Interval) ([]domain.SalesGrowth, error)

	// NewCustomers conta clientes cadastrados por período
	NewCustomers(ctx context.Context, interval domain.Interval) ([]domain.NewCustomers, error)

	// RepeatCustomers conta clientes com mais de um pedido dentro do mesmo período
	RepeatCustomers(ctx context.Context, interval domain.Interval) ([]domain.RepeatCustomers, error)

	// CustomerLTVCohorts retorna o LTV médio por coorte mensal
	CustomerLTVCohorts(ctx context.Context) ([]domain.CohortLTV, error)

	// GeographicalDistribution conta clientes por cidade em ordem decrescente
	GeographicalDistribution(ctx context.Context) ([]domain.CityDistribution, error)
}
