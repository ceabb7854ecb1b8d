package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	ObjStore *objStoreConfig
	Analyzer *analyzerConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     uint   `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"tender"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"TENDER_ANALYZER_ADDRESS" default:":3443"`
	MetricsAddress string `envconfig:"TENDER_ANALYZER_METRICS_ADDRESS" default:":8080"`
	BaseUrl        string `envconfig:"TENDER_ANALYZER_BASE_URL" default:"https://localhost:3443"`
	LogLevel       string `envconfig:"TENDER_ANALYZER_LOG_LEVEL" default:"info"`
	// TriggerToken authorizes the privileged processing trigger endpoint.
	TriggerToken    string `envconfig:"TENDER_ANALYZER_TRIGGER_TOKEN" default:""`
	Auth            Auth
	MigrationFolder string `envconfig:"TENDER_ANALYZER_MIGRATIONS_FOLDER" default:""`
}

type objStoreConfig struct {
	Endpoint  string `envconfig:"TENDER_ANALYZER_OBJSTORE_ENDPOINT" default:"localhost:9000"`
	Bucket    string `envconfig:"TENDER_ANALYZER_OBJSTORE_BUCKET" default:"tender-documents"`
	AccessKey string `envconfig:"TENDER_ANALYZER_OBJSTORE_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"TENDER_ANALYZER_OBJSTORE_SECRET_KEY" default:""`
	UseSSL    bool   `envconfig:"TENDER_ANALYZER_OBJSTORE_USE_SSL" default:"false"`
}

type analyzerConfig struct {
	APIKey string `envconfig:"TENDER_ANALYZER_OPENAI_API_KEY" default:""`
	Model  string `envconfig:"TENDER_ANALYZER_OPENAI_MODEL" default:"gpt-4o-mini"`
}

type Auth struct {
	AuthenticationType string `envconfig:"TENDER_ANALYZER_AUTH" default:""`
	LocalPrivateKey    string `envconfig:"TENDER_ANALYZER_PRIVATE_KEY" default:""`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
