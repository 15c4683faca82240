package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tooltrack-backend/internal/logger"
)

// CheckCalibrationDue finds tools whose next calibration date falls within the
// configured lookahead window and emails the maintenance desk a summary.
func (jr *JobRunner) CheckCalibrationDue() {
	jr.runWithRecovery("CheckCalibrationDue", func() {
		ctx := context.Background()

		lookahead := time.Duration(jr.config.Policy.CalibrationLookaheadDays) * 24 * time.Hour
		due := time.Now().UTC().Add(lookahead)

		tools, err := jr.store.ListCalibrationDue(ctx, due)
		if err != nil {
			logger.Error("Failed to list calibration-due tools", "error", err)
			return
		}

		logger.Info("Calibration check completed", "due_count", len(tools))
		if len(tools) == 0 {
			return
		}

		for _, t := range tools {
			logger.Debug("Tool calibration due",
				"tool_id", t.ID,
				"tool_code", t.Code,
				"next_calibration", t.NextCalibrationDate)
		}

		recipient := jr.config.Policy.MaintenanceEmail
		if recipient == "" {
			logger.Warn("No maintenance email configured, skipping calibration notice")
			return
		}

		var b strings.Builder
		fmt.Fprintf(&b, "The following tools require calibration within %d days:\n\n",
			jr.config.Policy.CalibrationLookaheadDays)
		for _, t := range tools {
			date := "unknown"
			if t.NextCalibrationDate != nil {
				date = t.NextCalibrationDate.Format("2006-01-02")
			}
			fmt.Fprintf(&b, "  - %s (%s), due %s\n", t.Name, t.Code, date)
		}

		timeout := time.Duration(jr.config.Policy.EmailTimeoutSeconds) * time.Second
		emailCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		subject := fmt.Sprintf("Calibration Due: %d tool(s)", len(tools))
		if err := jr.services.Email.Send(emailCtx, recipient, subject, b.String()); err != nil {
			logger.Error("Failed to send calibration notice", "error", err)
		}
	})
}
