package storage

import (
	"context"
)

// FileLike is a blob holding one JSON document. Loading a blob that was
// never saved leaves v untouched and returns no error.
type FileLike interface {
	Load(ctx context.Context, v any) error
	Save(ctx context.Context, v any) error
}
