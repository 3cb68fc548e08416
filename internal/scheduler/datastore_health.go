package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/commerce-analytics-api/internal/config"
	"github.com/vfg2006/commerce-analytics-api/pkg/metrics"
)

const pingTimeout = 5 * time.Second

// Pinger é implementado pelos repositórios de agregação
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatastoreHealthService verifica periodicamente a conexão com o datastore.
// O pool do database/sql reconecta sozinho; o job só registra as transições de estado.
type DatastoreHealthService struct {
	scheduler *gocron.Scheduler
	pinger    Pinger
	metrics   *metrics.Metrics
	interval  time.Duration
	enabled   bool

	mu          sync.Mutex
	checked     bool
	healthy     bool
	lastCheckAt time.Time
	lastError   error
}

func NewDatastoreHealthService(pinger Pinger, appConfig *config.Config, m *metrics.Metrics) *DatastoreHealthService {
	logrus.WithFields(logrus.Fields{
		"interval": appConfig.HealthCheck.Interval.String(),
		"enabled":  appConfig.HealthCheck.Enabled,
	}).Info("Configuração do monitor do datastore carregada")

	return &DatastoreHealthService{
		scheduler: gocron.NewScheduler(time.UTC),
		pinger:    pinger,
		metrics:   m,
		interval:  appConfig.HealthCheck.Interval,
		enabled:   appConfig.HealthCheck.Enabled,
	}
}

// Start agenda o job de verificação
func (s *DatastoreHealthService) Start(ctx context.Context) error {
	if !s.enabled {
		logrus.Info("Monitor do datastore desabilitado por configuração")
		return nil
	}

	_, err := s.scheduler.
		Every(s.interval).
		SingletonMode().
		WaitForSchedule().
		Do(func() {
			s.Check(ctx)
		})
	if err != nil {
		return fmt.Errorf("erro ao agendar monitor do datastore: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando monitor do datastore")
		s.scheduler.Stop()
	}()

	return nil
}

// Check executa um ping e registra mudanças de estado. Retorna true se o datastore respondeu.
func (s *DatastoreHealthService) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := s.pinger.Ping(pingCtx)
	healthy := err == nil

	s.mu.Lock()
	wasChecked, wasHealthy := s.checked, s.healthy
	s.checked = true
	s.healthy = healthy
	s.lastCheckAt = time.Now()
	s.lastError = err
	s.mu.Unlock()

	s.metrics.SetDatastoreUp(healthy)

	switch {
	case !healthy && (!wasChecked || wasHealthy):
		logrus.WithError(err).Error("Datastore indisponível; as requisições vão falhar até a conexão voltar")
	case healthy && wasChecked && !wasHealthy:
		logrus.Info("Conexão com o datastore restabelecida")
	case healthy && !wasChecked:
		logrus.Info("Conexão com o datastore estabelecida com sucesso")
	}

	return healthy
}

// Status retorna o resultado da última verificação
func (s *DatastoreHealthService) Status() (healthy bool, lastCheckAt time.Time, lastError error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthy, s.lastCheckAt, s.lastError
}
