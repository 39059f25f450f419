package uptime_api_config

import (
	"github.com/NordCoder/uptimekv/internal/config/common"
)

func Load(path string) (*Config, error) {
	v := common.NewViper(path)

	common.SetBaseDefaults(v, "uptime-api")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.grpc_addr", ":9090")
	v.SetDefault("server.metrics_addr", ":8081")
	v.SetDefault("server.read_timeout", "5s")
	// A probe alone may take probe.timeout.
	v.SetDefault("server.write_timeout", "20s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.graceful_timeout", "15s")

	common.SetStoreDefaults(v)
	common.SetProbeDefaults(v)
	common.SetEventsDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := common.ValidateStore(cfg.Store, cfg.Events); err != nil {
		return nil, err
	}
	return &cfg, nil
}
