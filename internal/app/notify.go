package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// sendLowStockAlert mails the stock-health report to the configured
// recipient when any active product is at or below its minimum.
func (a *Application) sendLowStockAlert() {
	cfg := a.appConfig.Smtp
	if !cfg.Enable || cfg.AlertsTo == "" {
		return
	}

	report, err := a.reportsSvc.LowStockReport(context.Background())
	if err != nil {
		zap.L().Error("low stock report failed", zap.Error(err))
		return
	}
	if report.TotalAlerts == 0 {
		return
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("%d product(s) at or below minimum stock:\n\n", report.TotalAlerts))
	for _, item := range report.Items {
		body.WriteString(fmt.Sprintf("- %s: %d %s (minimum %d)\n",
			item.Name, item.CurrentStock, item.Unit, item.MinimumStock))
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", cfg.AlertsTo)
	m.SetHeader("Subject", fmt.Sprintf("Low stock alert: %d products", report.TotalAlerts))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Passwd)
	if err := d.DialAndSend(m); err != nil {
		zap.L().Error("failed to send low stock alert", zap.Error(err))
		return
	}
	zap.L().Info("low stock alert sent", zap.Int("alerts", report.TotalAlerts))
}
