package app

import (
	"context"
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/doodhdairy/dairyledger/config"
	"github.com/doodhdairy/dairyledger/internal/domain"
	"github.com/doodhdairy/dairyledger/internal/ledger"
	"github.com/doodhdairy/dairyledger/internal/reports"
	"github.com/doodhdairy/dairyledger/internal/snapshot"
	"github.com/doodhdairy/dairyledger/pkg/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	bus       EventBus.Bus

	catalogStore ledger.CatalogStore
	txLog        ledger.TransactionLog
	auditLog     ledger.AuditLog

	ledgerSvc   *ledger.Service
	reportsSvc  *reports.Service
	snapshotSvc *snapshot.Service
}

// Ensure Application implements all interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
	a.initServices()
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database, cfg.System.Workdir)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	a.initServices()
	a.initJob()
}

// initServices builds the event bus, repositories and core services on
// top of the current database handle.
func (a *Application) initServices() {
	a.bus = EventBus.New()
	a.catalogStore = ledger.NewGormCatalogStore(a.gormDB)
	a.txLog = ledger.NewGormTransactionLog(a.gormDB)
	a.auditLog = ledger.NewGormAuditLog(a.gormDB)

	// Audit subscriber: every ledger mutation publishes an activity
	// record; the subscription is synchronous so the record is durable
	// before the mutation call returns.
	if err := a.bus.Subscribe(ledger.TopicAudit, func(rec *domain.ActivityLog) {
		if err := a.auditLog.Append(context.Background(), rec); err != nil {
			zap.L().Error("failed to append activity log", zap.Error(err))
		}
	}); err != nil {
		zap.L().Error("failed to subscribe audit handler", zap.Error(err))
	}

	a.ledgerSvc = ledger.NewService(a.gormDB, a.catalogStore, a.txLog, a.bus)
	a.reportsSvc = reports.NewService(a.gormDB, a.catalogStore, a.txLog, a.auditLog)
	a.snapshotSvc = snapshot.NewService(a.gormDB, a.catalogStore)
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEBUG_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Ledger returns the stock mutation service.
func (a *Application) Ledger() *ledger.Service {
	return a.ledgerSvc
}

// Reports returns the aggregation service.
func (a *Application) Reports() *reports.Service {
	return a.reportsSvc
}

// Snapshots returns the integrity snapshot service.
func (a *Application) Snapshots() *snapshot.Service {
	return a.snapshotSvc
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}
