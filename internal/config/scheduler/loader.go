package scheduler_config

import (
	"fmt"

	"github.com/NordCoder/uptimekv/internal/config/common"
	"github.com/robfig/cron/v3"
)

func Load(path string) (*Config, error) {
	v := common.NewViper(path)

	common.SetBaseDefaults(v, "scheduler")
	v.SetDefault("server.metrics_addr", ":8082")
	v.SetDefault("server.graceful_timeout", "15s")

	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", common.TopicCheckRequests)

	v.SetDefault("sched.schedule", "@every 1m")
	v.SetDefault("sched.publish_timeout", "10s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if _, err := cron.ParseStandard(cfg.Sched.Schedule); err != nil {
		return nil, common.ErrConfig(fmt.Sprintf("sched.schedule: %v", err))
	}
	for i, t := range cfg.Targets {
		if t.Host == "" || t.URL == "" {
			return nil, common.ErrConfig(fmt.Sprintf("targets[%d]: host and url are required", i))
		}
	}
	return &cfg, nil
}
