package common

import (
	"fmt"

	"github.com/NordCoder/uptimekv/internal/repository"
	"github.com/NordCoder/uptimekv/internal/repository/history"
)

// ValidateStore checks the store section and its interaction with events.
// Status-change events are enqueued in the same transaction as the history
// write, so they need the postgres driver.
func ValidateStore(s Store, e Events) error {
	switch s.Driver {
	case repository.DriverMemory, repository.DriverPostgres, repository.DriverSQLite:
	default:
		return ErrConfig(fmt.Sprintf("store.driver: unknown driver %q", s.Driver))
	}
	if _, err := history.ParseMode(s.Concurrency); err != nil {
		return ErrConfig("store.concurrency: " + err.Error())
	}
	if s.Driver == repository.DriverPostgres && s.Postgres.DSN == "" {
		return ErrConfig("store.postgres.dsn is required")
	}
	if e.Enable {
		if s.Driver != repository.DriverPostgres {
			return ErrConfig("events.enable requires store.driver=postgres")
		}
		if len(e.Brokers) == 0 || e.Topic == "" {
			return ErrConfig("events.brokers and events.topic are required")
		}
	}
	return nil
}
