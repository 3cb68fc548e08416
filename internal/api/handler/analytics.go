package handler

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/commerce-analytics-api/internal/domain"
	"github.com/vfg2006/commerce-analytics-api/internal/usecases/analyzing"
	"github.com/vfg2006/commerce-analytics-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// InvalidIntervalMessage é a resposta para um interval ausente ou desconhecido
const InvalidIntervalMessage = "Invalid interval specified"

// GetTotalSales retorna o total de vendas agrupado pelo intervalo informado
func GetTotalSales(service analyzing.Analyzer) http.Handler {
	return intervalHandler("total-sales", "Error fetching total sales: ", service.TotalSales)
}

// GetSalesGrowth retorna o total de vendas e a taxa de crescimento entre períodos consecutivos
func GetSalesGrowth(service analyzing.Analyzer) http.Handler {
	return intervalHandler("sales-growth", "Error fetching sales growth: ", service.SalesGrowth)
}

// GetNewCustomers retorna a quantidade de clientes cadastrados por período
func GetNewCustomers(service analyzing.Analyzer) http.Handler {
	return intervalHandler("new-customers", "Error fetching new customers: ", service.NewCustomers)
}

// GetRepeatCustomers retorna a quantidade de clientes recorrentes por período
func GetRepeatCustomers(service analyzing.Analyzer) http.Handler {
	return intervalHandler("repeat-customers", "Error fetching repeat customers: ", service.RepeatCustomers)
}

// GetCustomerLTVCohorts retorna o LTV médio por coorte mensal
func GetCustomerLTVCohorts(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context()).WithField("endpoint", "customer-ltv-cohorts")
		cohorts, err := service.CustomerLTVCohorts(r.Context())
		respond(w, logger, "Error fetching customer lifetime value by cohorts: ", cohorts, err)
	})
}

// GetGeographicalDistribution retorna a quantidade de clientes por cidade
func GetGeographicalDistribution(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context()).WithField("endpoint", "geographical-distribution")
		distribution, err := service.GeographicalDistribution(r.Context())
		respond(w, logger, "Error fetching geographical distribution: ", distribution, err)
	})
}

// intervalHandler valida o parâmetro interval antes de qualquer acesso ao datastore
func intervalHandler[T any](
	endpoint string,
	errorPrefix string,
	fetch func(context.Context, domain.Interval) ([]T, error),
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context()).WithField("endpoint", endpoint)

		raw := r.URL.Query().Get("interval")
		interval, err := domain.ParseInterval(raw)
		if err != nil {
			logger.WithField("interval", raw).Warnf("%s: intervalo inválido", endpoint)
			http.Error(w, InvalidIntervalMessage, http.StatusBadRequest)
			return
		}

		result, err := fetch(r.Context(), interval)
		respond(w, logger.WithField("interval", interval), errorPrefix, result, err)
	})
}

func respond[T any](w http.ResponseWriter, logger log.Logger, errorPrefix string, result []T, err error) {
	if errors.Is(err, domain.ErrInvalidInterval) {
		http.Error(w, InvalidIntervalMessage, http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.WithError(err).Error("analytics: erro ao buscar métricas")
		http.Error(w, errorPrefix+err.Error(), http.StatusInternalServerError)
		return
	}

	if result == nil {
		result = []T{}
	}

	body, err := json.Marshal(result)
	if err != nil {
		logger.WithError(err).Error("analytics: erro ao codificar resposta")
		http.Error(w, errorPrefix+err.Error(), http.StatusInternalServerError)
		return
	}

	logger.WithField("rows", len(result)).Debug("analytics: resposta enviada")
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		logger.WithError(err).Warn("analytics: erro ao escrever resposta")
	}
}
