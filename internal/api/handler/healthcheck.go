package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vfg2006/commerce-analytics-api/pkg/log"
)

// DatastoreStatus expõe o resultado da última verificação periódica do datastore
type DatastoreStatus interface {
	Status() (healthy bool, lastCheckAt time.Time, lastError error)
}

// HealthcheckHandler responde sempre 200 com o horário atual. Com status informado, inclui
// uma segunda linha com o estado do datastore; a API continua viva mesmo com o datastore fora.
func HealthcheckHandler(status DatastoreStatus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body strings.Builder
		body.WriteString(time.Now().String())
		if status != nil {
			body.WriteString("\n")
			body.WriteString(datastoreLine(status))
		}

		if _, err := w.Write([]byte(body.String())); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("error responding to healthcheck")
		}
	})
}

func datastoreLine(status DatastoreStatus) string {
	healthy, lastCheckAt, lastErr := status.Status()
	if lastCheckAt.IsZero() {
		return "datastore: unknown"
	}

	checked := lastCheckAt.UTC().Format(time.RFC3339)
	if healthy {
		return fmt.Sprintf("datastore: up (verificado em %s)", checked)
	}
	if lastErr != nil {
		return fmt.Sprintf("datastore: down (verificado em %s): %s", checked, lastErr)
	}
	return fmt.Sprintf("datastore: down (verificado em %s)", checked)
}
