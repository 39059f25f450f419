package uptime_api_config

import "github.com/NordCoder/uptimekv/internal/config/common"

type Config struct {
	App     common.App     `mapstructure:"app"`
	Server  common.Server  `mapstructure:"server"`
	Store   common.Store   `mapstructure:"store"`
	History common.History `mapstructure:"history"`
	Probe   common.Probe   `mapstructure:"probe"`
	Events  common.Events  `mapstructure:"events"`
	Outbox  common.Outbox  `mapstructure:"outbox"`
	Janitor common.Janitor `mapstructure:"janitor"`
	OTEL    common.OTEL    `mapstructure:"otel"`
	Log     common.Log     `mapstructure:"log"`
}
