package sync

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/halvard/cms/internal/config"
	"github.com/halvard/cms/internal/core"
	"github.com/halvard/cms/internal/metrics"
	"github.com/halvard/cms/internal/model"
	"github.com/halvard/cms/internal/platform"
	"github.com/halvard/cms/internal/registrar"
)

// DomainStore is the slice of the domain service the engine writes through.
type DomainStore interface {
	GetByName(ctx context.Context, name string) (*model.Domain, error)
	Create(ctx context.Context, d *model.Domain) error
	DeleteUnlocked(ctx context.Context) (int64, error)
}

// StatusFlag signals sync progress to external readers.
type StatusFlag interface {
	SetRunning(ctx context.Context) error
	SetIdle(ctx context.Context) error
}

// DomainLister lists every domain one registrar account owns.
type DomainLister interface {
	ListDomains(ctx context.Context, account config.RegistrarAccount) ([]registrar.RawDomain, error)
}

// DomainResolver finds which account owns a single domain.
type DomainResolver interface {
	ResolveDomain(ctx context.Context, name string) (*registrar.RawDomain, *config.RegistrarAccount, error)
}

// Engine orchestrates registrar reconciliation: the scheduled full-account
// sync and the on-demand per-domain import. Processing is strictly
// sequential; overlap protection lives at the scheduling layer, not here.
type Engine struct {
	store    DomainStore
	flag     StatusFlag
	lister   DomainLister
	resolver DomainResolver
	accounts []config.RegistrarAccount
	logger   zerolog.Logger
}

func NewEngine(store DomainStore, flag StatusFlag, lister DomainLister, resolver DomainResolver,
	accounts []config.RegistrarAccount, logger zerolog.Logger) *Engine {
	return &Engine{
		store:    store,
		flag:     flag,
		lister:   lister,
		resolver: resolver,
		accounts: accounts,
		logger:   logger.With().Str("component", "sync-engine").Logger(),
	}
}

// FullSyncSummary reports what one full sync run did.
type FullSyncSummary struct {
	Deleted  int64 `json:"deleted"`
	Imported int   `json:"imported"`
	Skipped  int   `json:"skipped"`
}

// ImportSummary reports what one candidate import run did.
type ImportSummary struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// FullSync replaces every unlocked domain record with the primary account's
// current registrar listing. The progress flag is set to running for the
// duration and released on every exit path, including failure, so an aborted
// run never blocks the next one.
func (e *Engine) FullSync(ctx context.Context) (FullSyncSummary, error) {
	var summary FullSyncSummary

	if len(e.accounts) == 0 {
		return summary, fmt.Errorf("full sync: no registrar accounts configured")
	}
	primary := e.accounts[0]

	if err := e.flag.SetRunning(ctx); err != nil {
		return summary, fmt.Errorf("full sync: %w", err)
	}
	defer func() {
		if err := e.flag.SetIdle(ctx); err != nil {
			e.logger.Error().Err(err).Msg("release sync flag")
		}
	}()

	e.logger.Info().Str("account", primary.Label).Msg("full domain sync started")

	raws, err := e.lister.ListDomains(ctx, primary)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("failed").Inc()
		e.logger.Error().Err(err).Str("account", primary.Label).Msg("full sync aborted: listing failed")
		return summary, fmt.Errorf("full sync: list domains for account %s: %w", primary.Label, err)
	}

	summary.Deleted, err = e.store.DeleteUnlocked(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("failed").Inc()
		return summary, fmt.Errorf("full sync: %w", err)
	}

	for _, raw := range raws {
		d, err := registrar.MapDomain(raw, primary.Registrar)
		if err != nil {
			// One bad record never aborts the batch.
			metrics.DomainsSkipped.WithLabelValues("mapping").Inc()
			e.logger.Warn().Err(err).Str("domain", raw.Domain).Msg("skipping unmappable record")
			summary.Skipped++
			continue
		}

		if err := e.createRecord(ctx, d); err != nil {
			if errors.Is(err, core.ErrDuplicateDomain) {
				// The listing contains a domain that exists as a locked row;
				// locked rows win over sync data.
				metrics.DomainsSkipped.WithLabelValues("duplicate").Inc()
				e.logger.Warn().Str("domain", d.Name).Msg("skipping domain shadowed by a locked record")
				summary.Skipped++
				continue
			}
			metrics.SyncRuns.WithLabelValues("failed").Inc()
			return summary, fmt.Errorf("full sync: %w", err)
		}
		metrics.DomainsImported.Inc()
		summary.Imported++
	}

	metrics.SyncRuns.WithLabelValues("ok").Inc()
	e.logger.Info().Int64("deleted", summary.Deleted).Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).Msg("full domain sync finished")
	return summary, nil
}

// Import reads candidate domain names from a CSV stream (first column) and
// backfills any that are missing from the store, resolving ownership across
// the configured accounts. Every per-candidate failure is logged and
// skipped; only a broken input stream aborts the batch.
func (e *Engine) Import(ctx context.Context, r io.Reader) (ImportSummary, error) {
	var summary ImportSummary

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	seen := make(map[string]struct{})
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				e.logger.Warn().Err(err).Msg("skipping malformed candidate row")
				summary.Skipped++
				continue
			}
			return summary, fmt.Errorf("import: read candidate list: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		name := strings.ToLower(strings.TrimSpace(record[0]))
		if _, dup := seen[name]; dup {
			metrics.DomainsSkipped.WithLabelValues("duplicate").Inc()
			summary.Skipped++
			continue
		}
		seen[name] = struct{}{}

		if e.importOne(ctx, name) {
			summary.Created++
		} else {
			summary.Skipped++
		}
	}

	e.logger.Info().Int("created", summary.Created).Int("skipped", summary.Skipped).
		Msg("domain import finished")
	return summary, nil
}

// importOne runs one candidate through the per-domain pipeline and reports
// whether a record was created.
func (e *Engine) importOne(ctx context.Context, name string) bool {
	if !ValidDomainName(name) {
		metrics.DomainsSkipped.WithLabelValues("invalid").Inc()
		e.logger.Warn().Str("domain", name).Msg("skipping candidate: invalid domain syntax")
		return false
	}

	existing, err := e.store.GetByName(ctx, name)
	if err != nil {
		metrics.DomainsSkipped.WithLabelValues("error").Inc()
		e.logger.Error().Err(err).Str("domain", name).Msg("skipping candidate: store lookup failed")
		return false
	}
	if existing != nil {
		metrics.DomainsSkipped.WithLabelValues("duplicate").Inc()
		e.logger.Info().Str("domain", name).Msg("skipping candidate: already present")
		return false
	}

	raw, owner, err := e.resolver.ResolveDomain(ctx, name)
	if err != nil {
		switch {
		case errors.Is(err, registrar.ErrNotFoundAllAccounts):
			metrics.DomainsSkipped.WithLabelValues("not_found").Inc()
			e.logger.Info().Str("domain", name).Msg("skipping candidate: not found in any account")
		default:
			metrics.DomainsSkipped.WithLabelValues("error").Inc()
			e.logger.Error().Err(err).Str("domain", name).Msg("skipping candidate: lookup failed")
		}
		return false
	}

	d, err := registrar.MapDomain(*raw, owner.Registrar)
	if err != nil {
		metrics.DomainsSkipped.WithLabelValues("mapping").Inc()
		e.logger.Warn().Err(err).Str("domain", name).Msg("skipping candidate: unmappable record")
		return false
	}

	if err := e.createRecord(ctx, d); err != nil {
		if errors.Is(err, core.ErrDuplicateDomain) {
			// Lost a race with a concurrent importer; the record exists,
			// which is what we wanted.
			metrics.DomainsSkipped.WithLabelValues("duplicate").Inc()
			e.logger.Info().Str("domain", name).Msg("skipping candidate: created concurrently")
		} else {
			metrics.DomainsSkipped.WithLabelValues("error").Inc()
			e.logger.Error().Err(err).Str("domain", name).Msg("skipping candidate: store write failed")
		}
		return false
	}

	metrics.DomainsImported.Inc()
	e.logger.Info().Str("domain", name).Str("account", owner.Label).Msg("imported domain")
	return true
}

func (e *Engine) createRecord(ctx context.Context, d *model.Domain) error {
	now := time.Now().UTC()
	d.ID = platform.NewID()
	d.CreatedAt = now
	d.UpdatedAt = now
	return e.store.Create(ctx, d)
}
