package check_worker_config

import (
	"github.com/NordCoder/uptimekv/internal/config/common"
)

func Load(path string) (*Config, error) {
	v := common.NewViper(path)

	common.SetBaseDefaults(v, "check-worker")
	v.SetDefault("server.metrics_addr", ":8083")
	v.SetDefault("server.graceful_timeout", "15s")

	v.SetDefault("kafka_in.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka_in.topic", common.TopicCheckRequests)
	v.SetDefault("kafka_in.group_id", "check-worker")

	common.SetStoreDefaults(v)
	common.SetProbeDefaults(v)
	common.SetEventsDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.In.Brokers) == 0 || cfg.In.Topic == "" {
		return nil, common.ErrConfig("kafka_in.brokers and kafka_in.topic are required")
	}
	if err := common.ValidateStore(cfg.Store, cfg.Events); err != nil {
		return nil, err
	}
	return &cfg, nil
}
