package activity

import (
	"context"
	"fmt"

	"github.com/halvard/cms/internal/sync"
)

// Sync contains activities for registrar domain reconciliation.
type Sync struct {
	engine *sync.Engine
}

// NewSync creates a new Sync activity struct.
func NewSync(engine *sync.Engine) *Sync {
	return &Sync{engine: engine}
}

// RunFullSync executes one full registrar sync run and returns its summary.
func (a *Sync) RunFullSync(ctx context.Context) (sync.FullSyncSummary, error) {
	summary, err := a.engine.FullSync(ctx)
	if err != nil {
		return summary, fmt.Errorf("run full sync: %w", err)
	}
	return summary, nil
}
