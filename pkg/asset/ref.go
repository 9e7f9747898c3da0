package asset

import "github.com/brain2-labs/assetengine/pkg/assetpath"

// Resolver is the subset of AssetDatabase that Ref needs.
// Defined here rather than imported from the database package to avoid a
// package cycle (the database package imports asset, not the reverse).
type Resolver interface {
	Ensure(path assetpath.Path) (Handle, error)
}

// Ref is a path plus a cached handle. Resolve calls Ensure on
// first use and caches the result; a Ref that has not yet been resolved
// (e.g. immediately after deserialization, where only Path was
// persisted) triggers lazy resolution on next Resolve.
type Ref struct {
	Path   assetpath.Path
	handle *Handle
}

// NewRef builds an unresolved reference to path.
func NewRef(path assetpath.Path) Ref {
	return Ref{Path: path}
}

// Resolve returns the cached handle, resolving it via db.Ensure on first
// call.
func (r *Ref) Resolve(db Resolver) (Handle, error) {
	if r.handle != nil {
		return *r.handle, nil
	}
	h, err := db.Ensure(r.Path)
	if err != nil {
		return Handle{}, err
	}
	r.handle = &h
	return h, nil
}

// IsResolved reports whether Resolve has already cached a handle.
func (r *Ref) IsResolved() bool {
	return r.handle != nil
}
