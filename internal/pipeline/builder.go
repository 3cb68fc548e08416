package pipeline

import (
	"github.com/vfg2006/commerce-analytics-api/internal/domain"
)

const (
	TotalSalesPlan      = "total-sales"
	SalesGrowthPlan     = "sales-growth"
	NewCustomersPlan    = "new-customers"
	RepeatCustomersPlan = "repeat-customers"
	CustomerLTVPlan     = "customer-ltv-cohorts"
	GeoDistributionPlan = "geographical-distribution"
)

// Nomes das colunas produzidas pelos planos
const (
	ColCustomerID      = "customer_id"
	ColCohort          = "cohort"
	ColCity            = "city"
	ColPurchases       = "purchases"
	ColLifetimeValue   = "lifetimeValue"
	ColTotalSales      = "totalSales"
	ColCount           = "count"
	ColRepeatCustomers = "repeatCustomers"
	ColAvgLTV          = "avgLTV"
	ColCustomerCount   = "customerCount"
)

// periodKeys monta as chaves de agrupamento do intervalo a partir do timestamp em field
func periodKeys(interval domain.Interval, field string) ([]KeyExpr, []SortKey, error) {
	parts := interval.Parts()
	if len(parts) == 0 {
		return nil, nil, domain.ErrInvalidInterval
	}

	keys := make([]KeyExpr, 0, len(parts))
	sort := make([]SortKey, 0, len(parts))
	for _, part := range parts {
		keys = append(keys, KeyExpr{Name: string(part), Kind: KeyDatePart, Field: field, Part: part})
		sort = append(sort, SortKey{Name: string(part)})
	}
	return keys, sort, nil
}

func carried(keys []KeyExpr) []KeyExpr {
	out := make([]KeyExpr, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyExpr{Name: k.Name, Kind: KeyCarry, From: k.Name})
	}
	return out
}

func timestampFilter() []Filter {
	return []Filter{{Kind: FilterHasTimestamp, Field: domain.FieldCreatedAt}}
}

// TotalSales soma o valor dos pedidos por período
func TotalSales(interval domain.Interval) (Plan, error) {
	keys, sort, err := periodKeys(interval, domain.FieldCreatedAt)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Name:       TotalSalesPlan,
		Collection: domain.CollectionOrders,
		Filters:    timestampFilter(),
		Stages: []Group{{
			Keys:         keys,
			Accumulators: []Accumulator{{Name: ColTotalSales, Kind: AccSum, Field: domain.FieldOrderAmount}},
		}},
		Sort: sort,
	}, nil
}

// SalesGrowth usa o mesmo agrupamento de TotalSales; a taxa de crescimento é derivada depois
func SalesGrowth(interval domain.Interval) (Plan, error) {
	plan, err := TotalSales(interval)
	if err != nil {
		return Plan{}, err
	}
	plan.Name = SalesGrowthPlan
	return plan, nil
}

// NewCustomers conta clientes pela data de criação do cadastro
func NewCustomers(interval domain.Interval) (Plan, error) {
	keys, sort, err := periodKeys(interval, domain.FieldCreatedAt)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Name:       NewCustomersPlan,
		Collection: domain.CollectionCustomers,
		Filters:    timestampFilter(),
		Stages: []Group{{
			Keys:         keys,
			Accumulators: []Accumulator{{Name: ColCount, Kind: AccCount}},
		}},
		Sort: sort,
	}, nil
}

// RepeatCustomers conta, por período, os clientes com mais de uma compra no mesmo período
func RepeatCustomers(interval domain.Interval) (Plan, error) {
	keys, sort, err := periodKeys(interval, domain.FieldCreatedAt)
	if err != nil {
		return Plan{}, err
	}

	perCustomer := append([]KeyExpr{{Name: ColCustomerID, Kind: KeyField, Field: domain.FieldCustomerID}}, keys...)

	return Plan{
		Name:       RepeatCustomersPlan,
		Collection: domain.CollectionOrders,
		Filters:    timestampFilter(),
		Stages: []Group{
			{
				Keys:         perCustomer,
				Accumulators: []Accumulator{{Name: ColPurchases, Kind: AccCount}},
			},
			{
				Keys:         carried(keys),
				Accumulators: []Accumulator{{Name: ColRepeatCustomers, Kind: AccCountIf, Field: ColPurchases, Threshold: 1}},
			},
		},
		Sort: sort,
	}, nil
}

// CustomerLTVCohorts calcula o LTV de cada cliente dentro do mês do pedido e tira a média por coorte
func CustomerLTVCohorts() Plan {
	return Plan{
		Name:       CustomerLTVPlan,
		Collection: domain.CollectionOrders,
		Filters:    timestampFilter(),
		Stages: []Group{
			{
				Keys: []KeyExpr{
					{Name: ColCustomerID, Kind: KeyField, Field: domain.FieldCustomerID},
					{Name: ColCohort, Kind: KeyMonth, Field: domain.FieldCreatedAt},
				},
				Accumulators: []Accumulator{{Name: ColLifetimeValue, Kind: AccSum, Field: domain.FieldOrderAmount}},
			},
			{
				Keys:         []KeyExpr{{Name: ColCohort, Kind: KeyCarry, From: ColCohort}},
				Accumulators: []Accumulator{{Name: ColAvgLTV, Kind: AccAvg, Field: ColLifetimeValue}},
			},
		},
		Sort: []SortKey{{Name: ColCohort}},
	}
}

// GeographicalDistribution conta clientes por cidade, da maior para a menor
func GeographicalDistribution() Plan {
	return Plan{
		Name:       GeoDistributionPlan,
		Collection: domain.CollectionCustomers,
		Stages: []Group{{
			Keys:         []KeyExpr{{Name: ColCity, Kind: KeyField, Field: domain.FieldCity}},
			Accumulators: []Accumulator{{Name: ColCustomerCount, Kind: AccCount}},
		}},
		Sort: []SortKey{{Name: ColCustomerCount, Desc: true}},
	}
}
