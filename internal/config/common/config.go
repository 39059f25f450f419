package common

import (
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/uptime"
	"github.com/NordCoder/uptimekv/internal/obs"
	"github.com/NordCoder/uptimekv/internal/repository"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	GRPCAddr        string        `mapstructure:"grpc_addr"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (lc *Log) AsLoggerConfig(app App) obs.LogConfig {
	return obs.LogConfig{
		Level:  lc.Level,
		Pretty: lc.Pretty,
		App:    "uptimekv/" + app.Name,
		Env:    app.Env,
		Ver:    app.Version,
	}
}

type Store struct {
	repository.Config `mapstructure:",squash"`
	KeyPrefix         string `mapstructure:"key_prefix"`
	Concurrency       string `mapstructure:"concurrency"`
	CASAttempts       int    `mapstructure:"cas_attempts"`
}

type History struct {
	RetentionWindow time.Duration `mapstructure:"retention_window"`
	MaxEntries      int           `mapstructure:"max_entries"`
	Expiry          time.Duration `mapstructure:"expiry"`
}

func (h History) AsPolicy() uptime.RetentionPolicy {
	p := uptime.DefaultRetentionPolicy()
	if h.RetentionWindow > 0 {
		p.Window = h.RetentionWindow
	}
	if h.MaxEntries > 0 {
		p.MaxEntries = h.MaxEntries
	}
	if h.Expiry > 0 {
		p.Expiry = h.Expiry
	}
	return p
}

type Probe struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	DefaultAsset string        `mapstructure:"default_asset"`
	MaxRedirects int           `mapstructure:"max_redirects"`
	VerifyTLS    bool          `mapstructure:"verify_tls"`
}

type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Events struct {
	Enable     bool     `mapstructure:"enable"`
	Brokers    []string `mapstructure:"brokers"`
	Topic      string   `mapstructure:"topic"`
	Partitions int      `mapstructure:"partitions"`
}

type Outbox struct {
	Workers       int           `mapstructure:"workers"`
	BatchSize     int           `mapstructure:"batch_size"`
	Wait          time.Duration `mapstructure:"wait"`
	InProgressTTL time.Duration `mapstructure:"in_progress_ttl"`
}

type Janitor struct {
	Enable   bool          `mapstructure:"enable"`
	Interval time.Duration `mapstructure:"interval"`
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
