// Package lifecycle holds the asset life-cycle marker components :
// at most one of these is present on any fetched entity at a time.
package lifecycle

import "github.com/brain2-labs/assetengine/pkg/assetpath"

// AssetPathComponent anchors an entity's identifier. It is installed once
// at spawn and never rewritten for the life of the entity.
type AssetPathComponent struct {
	Path assetpath.Path
}

// AwaitsResolution marks an entity that still needs a fetch engine to
// produce a component bundle for it.
type AwaitsResolution struct{}

// AwaitsDeferredJob marks an entity whose fetch was handed to a
// background worker pool or async executor; Token identifies the job for
// the wrapper that issued it.
type AwaitsDeferredJob struct {
	Token string
}

// BytesReadyToProcess marks an entity whose raw bytes arrived and are
// waiting for a protocol to decode them (I2: no decoded component exists
// yet while this marker is present).
type BytesReadyToProcess struct {
	Bytes []byte
}

// ErrorTag marks an entity that failed resolution or processing. It is
// retained alongside BytesReadyToProcess on protocol failure, for
// diagnostic inspection until the next reload.
type ErrorTag struct {
	Err error
}

// Group marks an entity installed by GroupAssetProtocol: it has no
// decoded content of its own besides its dependency edges.
type Group struct{}

// HasMarker reports whether v is one of the exclusive life-cycle marker
// types (I1).
func HasMarker(v any) bool {
	switch v.(type) {
	case AwaitsResolution, AwaitsDeferredJob, BytesReadyToProcess:
		return true
	default:
		return false
	}
}
