// Package store keeps finished reports so the dashboard can serve them after
// the upload request returns.
package store

import (
	"context"
	"errors"

	"github.com/jmehdipour/churnctl/internal/model"
)

var ErrNotFound = errors.New("report not found")

type Store interface {
	Put(ctx context.Context, r *model.Report) error
	Get(ctx context.Context, id string) (*model.Report, error)
}
