package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldnote/api/internal/store"
	"fieldnote/api/internal/util"
)

// Linker resolves a contact's email domain to a company, creating the
// company on first sight of a non-free domain.
type Linker struct {
	store store.Store
	now   func() time.Time
}

func NewLinker(st store.Store) *Linker {
	return &Linker{store: st, now: time.Now}
}

// LinkByEmail returns the company id the contact should point at, or nil
// when the email is empty, has no domain, or uses a free provider.
// companyName, when non-empty, names a company created here; otherwise the
// first domain label is used.
func (l *Linker) LinkByEmail(ctx context.Context, ownerUserID, email, companyName string) (*string, error) {
	domain := EmailDomain(email)
	if domain == "" || IsFreeEmailDomain(domain) {
		return nil, nil
	}

	if existing, err := l.store.GetCompanyDomain(ctx, ownerUserID, domain); err == nil {
		return &existing.CompanyID, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup company domain: %w", err)
	}

	name := companyName
	if name == "" {
		name = CompanyNameFromDomain(domain)
	}
	now := l.now().UTC()
	companyID := util.NewID("co")

	// Claim the domain before inserting the company, so a lost race never
	// leaves a company row behind.
	err := l.store.InsertCompanyDomain(ctx, store.CompanyDomain{
		ID:          util.NewID("cd"),
		CompanyID:   companyID,
		Domain:      domain,
		OwnerUserID: ownerUserID,
		CreatedAt:   now,
	})
	if err != nil {
		// A concurrent upsert can claim the domain between our lookup and
		// insert; the winner's company is the right link target.
		var dup *store.DuplicateDomainError
		if errors.As(err, &dup) {
			return &dup.ExistingCompanyID, nil
		}
		return nil, fmt.Errorf("claim company domain: %w", err)
	}

	company := store.Company{
		ID:          companyID,
		OwnerUserID: ownerUserID,
		Name:        name,
		Domain:      domain,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.store.InsertCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return &companyID, nil
}
