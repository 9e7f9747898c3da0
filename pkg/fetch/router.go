package fetch

import (
	"path"
	"sort"

	"github.com/brain2-labs/assetengine/pkg/apperrors"
	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
)

// RouterRoute binds a glob pattern (matched against Path.Body via
// path.Match, the same shell-style matching stdlib's path package already
// gives us) and a priority to an Engine. Higher Priority is tried first;
// among equal priorities, registration order is preserved.
type RouterRoute struct {
	Pattern  string
	Priority int
	Engine   Engine
}

// Router dispatches to the highest-priority route whose pattern matches
// the path body. Ties keep insertion order, giving
// scenario 4 from the worked examples ("two routes match, higher priority
// wins") a deterministic result.
type Router struct {
	routes []RouterRoute
}

// NewRouter builds a Router, sorting routes by descending priority with a
// stable sort so equal-priority routes keep their given order.
func NewRouter(routes ...RouterRoute) *Router {
	r := &Router{routes: append([]RouterRoute(nil), routes...)}
	r.resort()
	return r
}

func (r *Router) resort() {
	sort.SliceStable(r.routes, func(i, j int) bool {
		return r.routes[i].Priority > r.routes[j].Priority
	})
}

// Add registers a new route and re-sorts.
func (r *Router) Add(route RouterRoute) {
	r.routes = append(r.routes, route)
	r.resort()
}

// LoadBytes tries routes in priority order, returning the first pattern
// match's result (success or failure) without falling through to lower
// routes — Router picks exactly one engine per path, unlike Stack which
// tries every layer.
func (r *Router) LoadBytes(p assetpath.Path) (Bundle, error) {
	for _, route := range r.routes {
		ok, err := path.Match(route.Pattern, p.Body())
		if err != nil {
			return Bundle{}, apperrors.NewPathMalformed(p.String(), "router pattern: "+err.Error())
		}
		if ok {
			return route.Engine.LoadBytes(p)
		}
	}
	return Bundle{}, apperrors.NewNoFetchEngine(p.String())
}

// Maintain drains every Maintainer route, highest priority first.
func (r *Router) Maintain(s *ecs.Storage) error {
	for _, route := range r.routes {
		if m, ok := route.Engine.(Maintainer); ok {
			if err := m.Maintain(s); err != nil {
				return err
			}
		}
	}
	return nil
}
