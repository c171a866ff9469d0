package ports

import (
	"context"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

// Walker enumerates one OID subtree of a device and parses it with a grammar
type Walker interface {
	Target() string
	Walk(ctx context.Context, req entities.WalkRequest) entities.WalkResult
}

// Recorder keeps non-fatal problems found while polling a device
type Recorder interface {
	Warn(err error)
}

// ModelCatalog resolves a model string to its family
type ModelCatalog interface {
	FindFamily(model string) (string, bool)
}

// Fetch runs a walk and unwraps its outcome. Soft-empty results are recorded
// and returned as no entries; fatal results are returned as errors.
func Fetch(ctx context.Context, w Walker, rec Recorder, req entities.WalkRequest) ([]entities.Entry, error) {
	res := w.Walk(ctx, req)
	switch res.Status {
	case entities.WalkFatal:
		return nil, res.Err
	case entities.WalkSoftEmpty:
		if rec != nil && res.Err != nil {
			rec.Warn(res.Err)
		}
		return nil, nil
	}
	return res.Entries, nil
}
