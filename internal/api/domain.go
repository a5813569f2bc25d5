package api

import (
	"github.com/JaimeStill/pulse/internal/analyses"
	"github.com/JaimeStill/pulse/internal/stats"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Store    analyses.Store
	Analyses analyses.System
	Stats    stats.System
}

// NewDomain creates all domain systems from the API runtime. Every system
// shares the one store handle.
func NewDomain(runtime *Runtime) *Domain {
	store := analyses.NewStore(runtime.Database.Connection())

	return &Domain{
		Store: store,
		Analyses: analyses.New(
			store,
			runtime.Classifier,
			runtime.Limits,
			runtime.Pagination,
			runtime.Logger,
		),
		Stats: stats.New(store, runtime.Logger),
	}
}
