package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/commerce-analytics-api/infrastructure/database/memory"
	"github.com/vfg2006/commerce-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/commerce-analytics-api/infrastructure/repository"
	"github.com/vfg2006/commerce-analytics-api/internal/api"
	"github.com/vfg2006/commerce-analytics-api/internal/config"
	"github.com/vfg2006/commerce-analytics-api/internal/domain"
	"github.com/vfg2006/commerce-analytics-api/internal/scheduler"
	"github.com/vfg2006/commerce-analytics-api/internal/usecases/analyzing"
	"github.com/vfg2006/commerce-analytics-api/pkg/metrics"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	aggregationRepo, closeDatastore := datastore(ctx, cfg)
	defer closeDatastore()

	// Falha de conexão na inicialização não derruba o processo: as requisições falham
	// individualmente e o monitor registra quando o datastore voltar
	healthService := scheduler.NewDatastoreHealthService(aggregationRepo, cfg, m)
	healthService.Check(ctx)
	if err := healthService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o monitor do datastore")
	}

	analyzer := analyzing.NewService(cfg, aggregationRepo, m)

	server, err := api.New(cfg, analyzer, healthService, m)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// datastore cria o repositório de agregação do driver configurado
func datastore(ctx context.Context, cfg *config.Config) (repository.AggregationRepository, func()) {
	if cfg.Datastore.Driver == config.DatastoreMemory {
		store, err := memory.LoadFiles(ctx, map[domain.Collection]string{
			domain.CollectionOrders:    cfg.Datastore.OrdersFile,
			domain.CollectionCustomers: cfg.Datastore.CustomersFile,
		})
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao carregar coleções em memória")
		}

		logrus.WithFields(logrus.Fields{
			"orders":    len(store.Documents(domain.CollectionOrders)),
			"customers": len(store.Documents(domain.CollectionCustomers)),
		}).Info("Coleções carregadas em memória")

		return repository.NewMemoryAggregationRepository(store), func() {}
	}

	conn, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar conexão com PostgreSQL")
	}

	repo := repository.NewAggregationRepository(conn, map[domain.Collection]string{
		domain.CollectionOrders:    cfg.Datastore.OrdersCollection,
		domain.CollectionCustomers: cfg.Datastore.CustomersCollection,
	})

	return repo, func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão com PostgreSQL")
		}
	}
}
