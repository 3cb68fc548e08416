package analyzing

import (
	"github.com/vfg2006/commerce-analytics-api/internal/domain"
)

// CalculateGrowth encadeia os períodos em ordem ascendente e calcula a variação percentual
// de cada total em relação ao anterior. O primeiro período, e qualquer período cujo anterior
// somou zero, tem crescimento 0.
func CalculateGrowth(totals []domain.TotalSales) []domain.SalesGrowth {
	growth := make([]domain.SalesGrowth, 0, len(totals))

	for i, current := range totals {
		rate := 0.0
		if i > 0 {
			previous := totals[i-1].TotalSales
			if previous != 0 {
				rate = (current.TotalSales - previous) / previous * 100
			}
		}

		growth = append(growth, domain.SalesGrowth{
			Period:     current.ID,
			TotalSales: current.TotalSales,
			GrowthRate: rate,
		})
	}

	return growth
}
