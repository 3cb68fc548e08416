package domain

// Collection é o nome lógico de uma coleção de documentos
type Collection string

const (
	CollectionOrders    Collection = "orders"
	CollectionCustomers Collection = "customers"
)

// Campos dos documentos sincronizados da Shopify
const (
	FieldCreatedAt   = "created_at"
	FieldCustomerID  = "customer_id"
	FieldOrderAmount = "total_price_set.shop_money.amount"
	FieldCity        = "default_address.city"
)

type TotalSales struct {
	ID         PeriodKey `json:"_id"`
	TotalSales float64   `json:"totalSales"`
}

type SalesGrowth struct {
	Period     PeriodKey `json:"period"`
	TotalSales float64   `json:"totalSales"`
	GrowthRate float64   `json:"growthRate"`
}

type NewCustomers struct {
	ID    PeriodKey `json:"_id"`
	Count int64     `json:"count"`
}

type RepeatCustomers struct {
	ID              PeriodKey `json:"_id"`
	RepeatCustomers int64     `json:"repeatCustomers"`
}

// CohortLTV é o valor médio do ciclo de vida dos clientes de uma coorte (formato YYYY-MM)
type CohortLTV struct {
	Cohort string  `json:"_id"`
	AvgLTV float64 `json:"avgLTV"`
}

// CityDistribution conta clientes por cidade. City é nil quando o endereço não tem cidade.
type CityDistribution struct {
	City          *string `json:"_id"`
	CustomerCount int64   `json:"customerCount"`
}
