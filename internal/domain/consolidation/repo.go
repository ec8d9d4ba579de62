package consolidation

import "context"

// Repository persists the consolidated fact table. Replace discards all
// existing rows and writes the given set as one atomic unit, so readers
// never observe an empty or half-populated table.
type Repository interface {
	Replace(ctx context.Context, facts []*EncounterFact) (int, error)
	ListAll(ctx context.Context) ([]*EncounterFact, error)
}
