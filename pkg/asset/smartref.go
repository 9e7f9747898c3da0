package asset

import "github.com/brain2-labs/assetengine/pkg/assetpath"

// RefCounter is the subset of AssetDatabase that SmartRef needs to
// increment/decrement the refcount side table.
type RefCounter interface {
	Retain(h Handle)
	Release(h Handle)
}

// SmartRef is a ref-counted handle: NewSmartRef and Clone increment the
// database's refcount for the referenced entity; Release decrements it.
// Once the count is zero, the database's GC despawns the entity (and its
// private dependency subgraph) unless it was requested directly through
// the database's Ensure or another asset still depends on it.
//
// Go has no destructors, so "drop" is the explicit Release call; callers
// are expected to defer it, the same way they would io.Closer.Close.
type SmartRef struct {
	path   assetpath.Path
	handle Handle
	db     RefCounter
}

// NewSmartRef retains h and returns a SmartRef owning one count of it.
func NewSmartRef(db RefCounter, path assetpath.Path, h Handle) *SmartRef {
	db.Retain(h)
	return &SmartRef{path: path, handle: h, db: db}
}

// Clone retains another count of the same handle.
func (r *SmartRef) Clone() *SmartRef {
	r.db.Retain(r.handle)
	return &SmartRef{path: r.path, handle: r.handle, db: r.db}
}

// Release decrements the refcount. The receiver must not be used again
// afterward.
func (r *SmartRef) Release() {
	r.db.Release(r.handle)
}

// Handle returns the referenced handle.
func (r *SmartRef) Handle() Handle {
	return r.handle
}

// Path returns the referenced path.
func (r *SmartRef) Path() assetpath.Path {
	return r.path
}

// Equal compares two smart refs by referenced path, not by entity, so
// two refs to the same path compare equal even before either resolves.
func (r *SmartRef) Equal(other *SmartRef) bool {
	return r.path.Equal(other.path)
}

// HashKey returns the normalized key suitable for use as a map key,
// matching the equality semantics of Equal.
func (r *SmartRef) HashKey() string {
	return r.path.Key()
}
