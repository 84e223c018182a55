package app

import (
	"github.com/doodhdairy/dairyledger/config"
	"github.com/doodhdairy/dairyledger/internal/ledger"
	"github.com/doodhdairy/dairyledger/internal/reports"
	"github.com/doodhdairy/dairyledger/internal/snapshot"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ServiceProvider provides the core ledger services
type ServiceProvider interface {
	Ledger() *ledger.Service
	Reports() *reports.Service
	Snapshots() *snapshot.Service
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	ServiceProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
