package ports

import (
	"context"

	"sheetmark/domain/core"
	"sheetmark/domain/scheme"
)

// SchemeStore supplies mark schemes. Implementations may read them from
// files, a database, or serve the compiled-in default.
type SchemeStore interface {
	GetScheme(ctx context.Context, id core.SchemeID) (scheme.MarkScheme, error)
	ListSchemes(ctx context.Context) ([]scheme.MarkScheme, error)
}
