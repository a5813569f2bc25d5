package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/pkg/pagination"
)

// System defines the public contract for analysis domain operations.
type System interface {
	Handler() *Handler

	Analyze(ctx context.Context, cmd AnalyzeCommand) (*Analysis, error)
	AnalyzeBatch(ctx context.Context, cmd BatchCommand) (*BatchResult, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)
	Export(ctx context.Context) ([]Analysis, error)
}
