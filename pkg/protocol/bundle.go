package protocol

import "github.com/brain2-labs/assetengine/pkg/ecs"

// Decoder turns raw bytes into a bundle of components to install, plus
// the child paths (if any) that the decoded asset depends on.
type Decoder func(bytes []byte) (components []any, dependencies []string, err error)

// BundleAssetProtocol wraps a pure Decoder function as a Protocol: a
// convenience for the common "scheme + byte-to-bundle function" case
// that needs no other state.
type BundleAssetProtocol struct {
	scheme string
	decode Decoder
}

// NewBundleAssetProtocol registers decode under scheme.
func NewBundleAssetProtocol(scheme string, decode Decoder) *BundleAssetProtocol {
	return &BundleAssetProtocol{scheme: scheme, decode: decode}
}

func (p *BundleAssetProtocol) Name() string { return p.scheme }

// ProcessBytes installs every component decode returns and schedules a
// dependency entity for each returned path.
func (p *BundleAssetProtocol) ProcessBytes(ctx *Context, e ecs.Entity, bytes []byte) error {
	components, deps, err := p.decode(bytes)
	if err != nil {
		return err
	}
	for _, c := range components {
		if err := ctx.Storage.InsertDynamic(e, c); err != nil {
			return err
		}
	}
	for _, childPath := range deps {
		if _, err := ctx.EnsureDependency(e, childPath); err != nil {
			return err
		}
	}
	return nil
}
