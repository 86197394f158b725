package tasks

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/prateushsharma/sei-Firewall/config"
	"github.com/prateushsharma/sei-Firewall/services/stream"
	"github.com/prateushsharma/sei-Firewall/utils/logger"
)

// LogGatewayStats logs the live session and pending call counts
func LogGatewayStats(gateway *stream.Gateway) {
	stats := gateway.Stats()
	logger.WithFields(logger.Fields{
		"ActiveSessions": stats.ActiveSessions,
		"PendingCalls":   stats.PendingCalls,
	}).Infof("Gateway stats")
}

// StartCronJobs starts cron jobs
func StartCronJobs(gateway *stream.Gateway) {
	scheduler := gocron.NewScheduler(time.Local)
	conf := config.GatewayConfig()

	sweepMinutes := int(conf.SessionSweepEvery.Minutes())
	if sweepMinutes < 1 {
		sweepMinutes = 1
	}

	_, err := scheduler.Every(sweepMinutes).Minutes().Do(gateway.SweepIdleSessions)
	if err != nil {
		logger.Errorf("StartCronJobs for SweepIdleSessions: %v", err)
	}

	_, err = scheduler.Every(5).Minutes().Do(LogGatewayStats, gateway)
	if err != nil {
		logger.Errorf("StartCronJobs for LogGatewayStats: %v", err)
	}

	scheduler.StartAsync()
}
