package scenario

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned by lookups when no scenario matches.
var ErrNotFound = eris.New("scenario not found")

// ListFilter specifies criteria for listing scenarios.
type ListFilter struct {
	Name   string `json:"name,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines scenario persistence. Save is an upsert keyed by ID; names
// are unique so saved plans can be addressed by either.
type Store interface {
	Save(ctx context.Context, s *Scenario) error
	Get(ctx context.Context, id string) (*Scenario, error)
	GetByName(ctx context.Context, name string) (*Scenario, error)
	List(ctx context.Context, filter ListFilter) ([]Scenario, error)
	Delete(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}
