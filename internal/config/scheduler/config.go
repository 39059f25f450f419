package scheduler_config

import (
	"time"

	"github.com/NordCoder/uptimekv/internal/config/common"
)

// Target is one monitored site. Asset is optional.
type Target struct {
	Host  string `mapstructure:"host"`
	URL   string `mapstructure:"url"`
	Asset string `mapstructure:"asset"`
}

type SchedCfg struct {
	Schedule       string        `mapstructure:"schedule"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type Config struct {
	App     common.App    `mapstructure:"app"`
	Server  common.Server `mapstructure:"server"`
	Kafka   common.Kafka  `mapstructure:"kafka"`
	Sched   SchedCfg      `mapstructure:"sched"`
	Targets []Target      `mapstructure:"targets"`
	OTEL    common.OTEL   `mapstructure:"otel"`
	Log     common.Log    `mapstructure:"log"`
}
