package jobs

import (
	"context"

	"tooltrack-backend/internal/logger"
)

// ProcessOverdueIssuances runs one cycle of the overdue detector: open loans
// past their expected return date are flagged OVERDUE and the borrowing
// technician is notified, subject to the notification cooldown.
func (jr *JobRunner) ProcessOverdueIssuances() {
	jr.runWithRecovery("ProcessOverdueIssuances", func() {
		ctx := context.Background()

		summary, err := jr.services.Issuance.ProcessOverdue(ctx)
		if err != nil {
			logger.Error("Overdue scan failed", "error", err)
			return
		}

		logger.Info("Overdue issuances processed",
			"scanned", summary.Scanned,
			"newly_overdue", summary.NewlyOverdue,
			"renotified", summary.Renotified,
			"skipped", summary.Skipped,
			"failures", summary.Failures)
	})
}
