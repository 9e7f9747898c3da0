package protocol

import (
	"strings"

	"github.com/brain2-labs/assetengine/pkg/ecs"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
)

// GroupAssetProtocol reads a newline-separated manifest of child paths
// and installs each as a dependency, producing only a Group tag of its
// own.
type GroupAssetProtocol struct {
	scheme string
}

// NewGroupAssetProtocol registers a manifest protocol under scheme.
func NewGroupAssetProtocol(scheme string) *GroupAssetProtocol {
	return &GroupAssetProtocol{scheme: scheme}
}

func (p *GroupAssetProtocol) Name() string { return p.scheme }

func (p *GroupAssetProtocol) ProcessBytes(ctx *Context, e ecs.Entity, bytes []byte) error {
	if err := ctx.Storage.InsertDynamic(e, lifecycle.Group{}); err != nil {
		return err
	}
	for _, line := range strings.Split(string(bytes), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := ctx.EnsureDependency(e, line); err != nil {
			return err
		}
	}
	return nil
}
