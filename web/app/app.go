// Package app serves the server-rendered dashboard at the site root.
package app

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/pulse/internal/analyses"
	"github.com/JaimeStill/pulse/internal/stats"
	"github.com/JaimeStill/pulse/pkg/pagination"
	"github.com/JaimeStill/pulse/pkg/routes"
	"github.com/JaimeStill/pulse/pkg/web"
)

//go:embed templates
var templateFS embed.FS

const recentCount = 10

var home = web.ViewDef{Route: "", Template: "home.html", Title: "Pulse"}

var funcs = template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"timestamp": func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return t.UTC().Format(time.DateTime)
		case *time.Time:
			if t == nil {
				return ""
			}
			return t.UTC().Format(time.DateTime)
		}
		return ""
	},
}

// Sources are the systems the dashboard reads from.
type Sources struct {
	Analyses      analyses.System
	Stats         stats.System
	Model         string
	ModelLoaded   bool
	MaxTextLength int
}

// Dashboard is the data rendered by the home page.
type Dashboard struct {
	Stats         *stats.Stats
	Recent        []analyses.Analysis
	Model         string
	ModelLoaded   bool
	MaxTextLength int
}

// Routes parses the embedded templates and returns the dashboard route group.
func Routes(src Sources, logger *slog.Logger) (routes.Group, error) {
	ts, err := web.NewTemplateSet(templateFS, "templates/layouts/*.html", "templates/pages", "", funcs, []web.ViewDef{home})
	if err != nil {
		return routes.Group{}, fmt.Errorf("parse dashboard templates: %w", err)
	}

	load := func(r *http.Request) (any, error) {
		return src.load(r.Context())
	}

	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: home.Route, Handler: ts.PageHandler("app", home, load, logger.With("handler", "dashboard"))},
		},
	}, nil
}

func (s Sources) load(ctx context.Context) (*Dashboard, error) {
	st, err := s.Stats.Compute(ctx)
	if err != nil {
		return nil, err
	}

	page := pagination.PageRequest{Page: 1, PageSize: recentCount}
	recent, err := s.Analyses.List(ctx, page, analyses.Filters{})
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Stats:         st,
		Recent:        recent.Data,
		Model:         s.Model,
		ModelLoaded:   s.ModelLoaded,
		MaxTextLength: s.MaxTextLength,
	}, nil
}
