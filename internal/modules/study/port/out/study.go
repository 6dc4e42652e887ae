package out

import "context"

// CurrentUnitStore remembers the unit to reopen on the next start.
type CurrentUnitStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, unitID string) error
}
