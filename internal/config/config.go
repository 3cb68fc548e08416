package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DatastorePostgres = "postgres"
	DatastoreMemory   = "memory"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Datastore   Datastore   `mapstructure:",squash"`
	Analytics   Analytics   `mapstructure:",squash"`
	HealthCheck HealthCheck `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	URI          string `mapstructure:"database_uri"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
}

// Datastore define onde os documentos de pedidos e clientes estão.
// No modo memory as coleções são lidas dos arquivos na inicialização.
type Datastore struct {
	Driver              string `mapstructure:"datastore_driver"`
	OrdersCollection    string `mapstructure:"orders_collection"`
	CustomersCollection string `mapstructure:"customers_collection"`
	OrdersFile          string `mapstructure:"orders_file"`
	CustomersFile       string `mapstructure:"customers_file"`
}

type Analytics struct {
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type HealthCheck struct {
	Enabled  bool          `mapstructure:"datastore_health_enabled"`
	Interval time.Duration `mapstructure:"datastore_health_interval"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 5000)

	viper.SetDefault("DATABASE_URI", "")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/rq_analytics?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)

	viper.SetDefault("DATASTORE_DRIVER", DatastorePostgres)
	viper.SetDefault("ORDERS_COLLECTION", "shopify_orders")
	viper.SetDefault("CUSTOMERS_COLLECTION", "shopify_customers")
	viper.SetDefault("ORDERS_FILE", "")
	viper.SetDefault("CUSTOMERS_FILE", "")

	viper.SetDefault("QUERY_TIMEOUT", "10s")

	viper.SetDefault("DATASTORE_HEALTH_ENABLED", true)
	viper.SetDefault("DATASTORE_HEALTH_INTERVAL", "30s")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.finalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// finalize monta o DSN e valida as combinações de configuração
func (c *Config) finalize() error {
	if c.Database.URI != "" {
		c.Database.DSN = c.Database.URI
	} else {
		c.Database.DSN = fmt.Sprintf(
			"%s://%s:%s@%s",
			c.Database.Driver,
			c.Database.User,
			c.Database.Password,
			c.Database.URL,
		)
	}

	switch c.Datastore.Driver {
	case DatastorePostgres:
	case DatastoreMemory:
		if c.Datastore.OrdersFile == "" && c.Datastore.CustomersFile == "" {
			return fmt.Errorf("config: datastore memory exige ORDERS_FILE ou CUSTOMERS_FILE")
		}
	default:
		return fmt.Errorf("config: datastore desconhecido %q", c.Datastore.Driver)
	}

	if c.Analytics.QueryTimeout <= 0 {
		return fmt.Errorf("config: QUERY_TIMEOUT deve ser positivo")
	}
	if c.HealthCheck.Enabled && c.HealthCheck.Interval <= 0 {
		return fmt.Errorf("config: DATASTORE_HEALTH_INTERVAL deve ser positivo")
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual: ", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
