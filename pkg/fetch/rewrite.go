package fetch

import (
	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
)

// Rewrite transforms a path's body before handing it to an inner engine,
// e.g. stripping a mount prefix or swapping an extension. The component
// bundle the inner engine returns is installed against the *originally
// requested* path: callers never see the rewritten body, since entities
// are keyed by what was asked for, not by what was fetched.
type Rewrite struct {
	inner Engine
	fn    func(body string) string
}

// NewRewrite wraps inner, applying fn to the path body before fetching.
func NewRewrite(inner Engine, fn func(body string) string) *Rewrite {
	return &Rewrite{inner: inner, fn: fn}
}

func (r *Rewrite) LoadBytes(p assetpath.Path) (Bundle, error) {
	return r.inner.LoadBytes(p.WithBody(r.fn(p.Body())))
}

// Maintain forwards to the inner engine if it maintains state.
func (r *Rewrite) Maintain(s *ecs.Storage) error {
	if m, ok := r.inner.(Maintainer); ok {
		return m.Maintain(s)
	}
	return nil
}
