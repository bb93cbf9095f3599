package catalog

import (
	"context"
	"errors"
)

type ProductCache interface {
	Get(ctx context.Context, slug string) (*Product, error)
	Set(ctx context.Context, slug string, product *Product) error
	Delete(ctx context.Context, slug string) error
}

var ErrCacheMiss = errors.New("cache miss")
