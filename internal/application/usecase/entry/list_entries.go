package entry

import (
	"context"
	"fmt"
	"regexp"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/application/usecase/ledgerview"
	"github.com/tyreledger/backend/internal/application/usecase/stats"
	"github.com/tyreledger/backend/internal/domain/entity"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

var periodKeyRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ListEntriesInput represents the input for listing entries.
// Month is an optional YYYY-MM filter; empty means no filter.
type ListEntriesInput struct {
	Month string
}

// ListEntriesOutput carries the visible view plus the derived metrics and
// the month choices for the filter control.
type ListEntriesOutput struct {
	Entries []entity.LedgerEntry
	Stats   entity.LedgerStats
	Months  []string
}

// ListEntriesUseCase derives the visible, ordered ledger view and its stats.
type ListEntriesUseCase struct {
	entryRepo adapter.EntryRepository
}

// NewListEntriesUseCase creates a new ListEntriesUseCase instance.
func NewListEntriesUseCase(entryRepo adapter.EntryRepository) *ListEntriesUseCase {
	return &ListEntriesUseCase{
		entryRepo: entryRepo,
	}
}

// Execute lists the visible entries with stats.
func (uc *ListEntriesUseCase) Execute(ctx context.Context, input ListEntriesInput) (*ListEntriesOutput, error) {
	if input.Month != "" && !periodKeyRegex.MatchString(input.Month) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidPeriodKey,
			"month filter must be of the form YYYY-MM",
			domainerror.ErrInvalidPeriodKey,
		)
	}

	all, err := uc.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	visible := ledgerview.VisibleEntries(all, input.Month)

	return &ListEntriesOutput{
		Entries: visible,
		Stats:   stats.ComputeStats(visible, all),
		Months:  ledgerview.AvailableMonths(all),
	}, nil
}
