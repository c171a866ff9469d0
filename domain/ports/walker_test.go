package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

type stubWalker struct {
	result entities.WalkResult
}

func (s stubWalker) Target() string { return "10.0.0.2" }

func (s stubWalker) Walk(context.Context, entities.WalkRequest) entities.WalkResult {
	return s.result
}

type recorder struct {
	errs []error
}

func (r *recorder) Warn(err error) {
	r.errs = append(r.errs, err)
}

func TestFetch(t *testing.T) {
	soft := &entities.SoftError{Target: "10.0.0.2", Err: entities.ErrNoSuchObject}
	fatal := &entities.FatalError{Target: "10.0.0.2", Err: errors.New("exit status 1")}

	tests := []struct {
		name     string
		result   entities.WalkResult
		entries  []entities.Entry
		warnings int
		wantErr  error
	}{
		{
			name:    "ok",
			result:  entities.WalkResult{Status: entities.WalkOK, Entries: []entities.Entry{{Value: "a"}}},
			entries: []entities.Entry{{Value: "a"}},
		},
		{
			name:     "soft empty is recorded",
			result:   entities.WalkResult{Status: entities.WalkSoftEmpty, Err: soft},
			warnings: 1,
		},
		{
			name:    "fatal is returned",
			result:  entities.WalkResult{Status: entities.WalkFatal, Err: fatal},
			wantErr: fatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			entries, err := Fetch(context.Background(), stubWalker{result: tt.result}, rec, entities.WalkRequest{})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.entries, entries)
			assert.Len(t, rec.errs, tt.warnings)
		})
	}
}

func TestFetch_NilRecorder(t *testing.T) {
	w := stubWalker{result: entities.WalkResult{Status: entities.WalkSoftEmpty, Err: entities.ErrNoSuchObject}}
	entries, err := Fetch(context.Background(), w, nil, entities.WalkRequest{})
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
