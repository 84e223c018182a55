package app

import (
	"context"
	"time"

	"github.com/doodhdairy/dairyledger/internal/domain"
	"github.com/doodhdairy/dairyledger/pkg/common"
	"github.com/doodhdairy/dairyledger/pkg/metrics"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	// Close out the previous business day right after midnight: write
	// its integrity snapshot, alert on low stock, trim old audit rows.
	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedDailyCloseTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge(metrics.GaugeSystemCPU, int64(_cpuuse[0]*100))
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge(metrics.GaugeSystemMem, int64(_meminfo.Used/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}

// SchedDailyCloseTask generates the integrity snapshot for the day that
// just ended and runs the daily housekeeping. The snapshot generation
// is idempotent, so re-runs (manual or after restart) are harmless.
func (a *Application) SchedDailyCloseTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	yesterday := time.Now().AddDate(0, 0, -1).Format(common.DateLayout)
	if _, err := a.snapshotSvc.GenerateDailyHash(context.Background(), yesterday); err != nil {
		zap.L().Error("daily snapshot generation failed",
			zap.String("date", yesterday), zap.Error(err))
	}

	a.sendLowStockAlert()

	// Audit retention: keep one year of activity logs.
	a.gormDB.
		Where("created_at < ?", time.Now().
			Add(-time.Hour*24*365)).Delete(&domain.ActivityLog{})
}
