package backend

import (
	"fmt"

	appconfig "finease/internal/config"
)

// Type identifies which backend implementation to assemble.
type Type string

const (
	TypeSQLite Type = "sqlite"
	TypeMemory Type = "memory"
)

func (t Type) IsValid() bool {
	return t == TypeSQLite || t == TypeMemory
}

// Config carries the settings needed to build a backend.
type Config struct {
	Type         Type
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// FromAppConfig maps the application configuration onto a backend config.
func FromAppConfig(cfg *appconfig.Config) Config {
	return Config{
		Type:         Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		AMQPQueue:    cfg.AMQPQueue,
	}
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("unknown backend type %q", c.Type)
	}
	if c.Type == TypeSQLite && c.SQLiteDBPath == "" {
		return fmt.Errorf("sqlite backend requires a database path")
	}
	return nil
}
