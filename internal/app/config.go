package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"attack2mongo/internal/domain"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMongoURI   = "mongodb://localhost:27017/"
	DefaultDatabase   = "mitre_attack"
	DefaultCollection = "techniques"
	DefaultSourceURL  = "https://raw.githubusercontent.com/mitre-attack/attack-stix-data/master/enterprise-attack/enterprise-attack.json"
	DefaultLoadMode   = "replace"
	DefaultMetricsJob = "attack2mongo"
	DefaultLogLevel   = "info"
)

type Mongo struct {
	URI                  string `yaml:"uri" validate:"required,startswith=mongodb"`
	Database             string `yaml:"database" validate:"required"`
	Collection           string `yaml:"collection" validate:"required"`
	ConnectTimeoutSecond int    `yaml:"connect_timeout_second" validate:"min=0"`
}

type Source struct {
	URL           string `yaml:"url" validate:"required,http_url"`
	TimeoutSecond int    `yaml:"timeout_second" validate:"min=0"`
	EntityType    string `yaml:"entity_type" validate:"required"`
}

type Load struct {
	Mode      string `yaml:"mode" validate:"oneof=replace swap"`
	BatchSize int    `yaml:"batch_size" validate:"min=0"`
}

type Metrics struct {
	PushgatewayURL string `yaml:"pushgateway_url" validate:"omitempty,http_url"`
	Job            string `yaml:"job" validate:"required"`
}

type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

type Config struct {
	Mongo   Mongo   `yaml:"mongo"`
	Source  Source  `yaml:"source"`
	Load    Load    `yaml:"load"`
	Metrics Metrics `yaml:"metrics"`
	Log     Log     `yaml:"log"`
}

// LoadConfig 从文件加载配置。
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置失败: %w", err)
	}
	return cfg, nil
}

// ApplyEnv 用环境变量覆盖配置，变量名沿用 MONGO_URI、DB_NAME 等约定。
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"MONGO_URI", &c.Mongo.URI},
		{"DB_NAME", &c.Mongo.Database},
		{"COLLECTION_NAME", &c.Mongo.Collection},
		{"MITRE_JSON_URL", &c.Source.URL},
		{"ENTITY_TYPE", &c.Source.EntityType},
		{"LOAD_MODE", &c.Load.Mode},
		{"PUSHGATEWAY_URL", &c.Metrics.PushgatewayURL},
		{"METRICS_JOB", &c.Metrics.Job},
		{"LOG_LEVEL", &c.Log.Level},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && strings.TrimSpace(v) != "" {
			*s.dst = strings.TrimSpace(v)
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"MONGO_CONNECT_TIMEOUT", &c.Mongo.ConnectTimeoutSecond},
		{"SOURCE_TIMEOUT", &c.Source.TimeoutSecond},
		{"LOAD_BATCH_SIZE", &c.Load.BatchSize},
	}
	for _, i := range ints {
		v, ok := lookup(i.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("环境变量 %s 不是整数: %w", i.key, err)
		}
		*i.dst = n
	}
	return nil
}

// ApplyDefaults 填充未配置的字段。
func (c *Config) ApplyDefaults() {
	if c.Mongo.URI == "" {
		c.Mongo.URI = DefaultMongoURI
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = DefaultDatabase
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = DefaultCollection
	}
	if c.Source.URL == "" {
		c.Source.URL = DefaultSourceURL
	}
	if c.Source.EntityType == "" {
		c.Source.EntityType = domain.TypeAttackPattern
	}
	if c.Load.Mode == "" {
		c.Load.Mode = DefaultLoadMode
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = DefaultMetricsJob
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate 校验配置取值。
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	return nil
}

// Resolve 依次应用环境变量、默认值并校验。
func Resolve(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
