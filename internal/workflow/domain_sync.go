package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/halvard/cms/internal/sync"
)

// SyncDomainsWorkflow runs one full registrar domain sync. The activity is
// never retried: a failed run releases the status flag itself, and the next
// scheduled run starts from a clean slate. Overlap is prevented by the
// schedule policy, so at most one sync executes at a time.
func SyncDomainsWorkflow(ctx workflow.Context) (sync.FullSyncSummary, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	logger := workflow.GetLogger(ctx)
	logger.Info("starting domain sync")

	var summary sync.FullSyncSummary
	if err := workflow.ExecuteActivity(ctx, "RunFullSync").Get(ctx, &summary); err != nil {
		logger.Error("domain sync failed", "error", err)
		return summary, err
	}

	logger.Info("domain sync finished",
		"deleted", summary.Deleted, "imported", summary.Imported, "skipped", summary.Skipped)
	return summary, nil
}
