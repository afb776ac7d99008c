package registrar

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/halvard/cms/internal/config"
)

// ErrNotFoundAllAccounts means no configured account owns the domain. The
// caller treats this as a skip, not an error.
var ErrNotFoundAllAccounts = errors.New("domain not found in any configured account")

// DomainFetcher is the part of the registrar client the rotation needs.
type DomainFetcher interface {
	GetDomain(ctx context.Context, account config.RegistrarAccount, name string) (*RawDomain, error)
}

// Rotation resolves which registrar account owns a domain by trying each
// configured account in priority order. Ordering is a deployment decision
// carried by the accounts file, not computed here.
type Rotation struct {
	client   DomainFetcher
	accounts []config.RegistrarAccount
	logger   zerolog.Logger
}

func NewRotation(client DomainFetcher, accounts []config.RegistrarAccount, logger zerolog.Logger) *Rotation {
	return &Rotation{
		client:   client,
		accounts: accounts,
		logger:   logger.With().Str("component", "account-rotation").Logger(),
	}
}

// ResolveDomain tries each account in order. A NotFound from one account
// moves on to the next; any other failure is returned immediately so real
// errors are never masked as not-found.
func (r *Rotation) ResolveDomain(ctx context.Context, name string) (*RawDomain, *config.RegistrarAccount, error) {
	for i := range r.accounts {
		account := &r.accounts[i]

		raw, err := r.client.GetDomain(ctx, *account, name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				r.logger.Debug().Str("domain", name).Str("account", account.Label).
					Msg("account does not own domain, trying next")
				continue
			}
			return nil, nil, fmt.Errorf("resolve %s via account %s: %w", name, account.Label, err)
		}

		return raw, account, nil
	}

	return nil, nil, ErrNotFoundAllAccounts
}
