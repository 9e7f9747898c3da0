package assetdb_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brain2-labs/assetengine/pkg/apperrors"
	"github.com/brain2-labs/assetengine/pkg/asset"
	"github.com/brain2-labs/assetengine/pkg/assetdb"
	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/events"
	"github.com/brain2-labs/assetengine/pkg/fetch"
	"github.com/brain2-labs/assetengine/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTextAssetHappyPath covers worked scenario 1: ensure a text:// path,
// tick until quiescent, read the decoded component back.
func TestTextAssetHappyPath(t *testing.T) {
	db := assetdb.New(nil, assetdb.NewMetrics(nil))
	db.WithProtocol(protocol.NewTextAssetProtocol())
	db.WithFetch(fetch.Collection{"hero.txt": []byte("hello world")})

	h, err := db.Ensure(assetpath.MustParse("text://hero.txt"))
	require.NoError(t, err)

	require.NoError(t, db.Maintain())
	require.False(t, db.IsBusy())

	content, err := asset.Access[protocol.TextContent](db.Storage(), h)
	require.NoError(t, err)
	assert.Equal(t, "hello world", content.Value)
}

// TestMissingProtocolInstallsErrorTag covers worked scenario 2: bytes
// resolve fine but no protocol is registered for the scheme, so the
// entity ends the tick with an ErrorTag instead of decoded content.
func TestMissingProtocolInstallsErrorTag(t *testing.T) {
	db := assetdb.New(nil, assetdb.NewMetrics(nil))
	db.WithFetch(fetch.Collection{"hero.bin": []byte("xyz")})

	h, err := db.Ensure(assetpath.MustParse("binary://hero.bin"))
	require.NoError(t, err)
	require.NoError(t, db.Maintain())

	snap := db.Snapshot()
	assert.Equal(t, 1, snap.Errored)
	_ = h
}

// TestDependencyScheduling covers worked scenario 3: a protocol's bundle
// schedules a dependent path, which is itself resolved by a later tick,
// and the dependency edge is queryable from the parent handle.
func TestDependencyScheduling(t *testing.T) {
	db := assetdb.New(nil, assetdb.NewMetrics(nil))
	db.WithProtocol(protocol.NewTextAssetProtocol())
	db.WithProtocol(protocol.NewBundleAssetProtocol("manifest", func(bytes []byte) ([]any, []string, error) {
		return nil, []string{"text://hero.txt"}, nil
	}))
	db.WithFetch(fetch.Collection{
		"scene.manifest": []byte("ignored"),
		"hero.txt":       []byte("hello"),
	})

	h, err := db.Ensure(assetpath.MustParse("manifest://scene.manifest"))
	require.NoError(t, err)

	for i := 0; i < 3 && db.IsBusy(); i++ {
		require.NoError(t, db.Maintain())
	}
	require.False(t, db.IsBusy())

	deps := h.Dependencies(db.Storage())
	require.Len(t, deps, 1)
	content, err := asset.Access[protocol.TextContent](db.Storage(), deps[0])
	require.NoError(t, err)
	assert.Equal(t, "hello", content.Value)
}

// TestRefCountReleaseKeepsAnchoredEntity checks that ref-count GC does not
// collect an entity requested directly through Ensure: retaining it through
// a SmartRef and a clone, then releasing both, leaves it alive after the
// next maintain.
func TestRefCountReleaseKeepsAnchoredEntity(t *testing.T) {
	db := assetdb.New(nil, assetdb.NewMetrics(nil))
	db.WithProtocol(protocol.NewTextAssetProtocol())
	db.WithFetch(fetch.Collection{"hero.txt": []byte("hello")})

	path := assetpath.MustParse("text://hero.txt")
	h, err := db.Ensure(path)
	require.NoError(t, err)
	require.NoError(t, db.Maintain())

	// Ensure anchors the entity; simulate a non-anchored dependency-only
	// entity by dropping the anchor's protection through ref-counting: a
	// SmartRef retained and released independently of the anchor.
	ref := asset.NewSmartRef(db, path, h)
	clone := ref.Clone()
	ref.Release()
	clone.Release()

	// The entity is still anchored (direct Ensure), so it survives GC even
	// at refcount zero: anchoring and ref-counting are independent
	// lifetimes.
	require.NoError(t, db.Maintain())
	_, found := db.Find(path)
	assert.True(t, found)
}

// TestUnloadDespawnsOrphanedChildOneLevel exercises Unload's local-only
// cascade: a manifest's sole dependency is despawned along with it when
// neither is retained.
func TestUnloadDespawnsOrphanedChildOneLevel(t *testing.T) {
	db := assetdb.New(nil, assetdb.NewMetrics(nil))
	db.WithProtocol(protocol.NewTextAssetProtocol())
	db.WithProtocol(protocol.NewBundleAssetProtocol("manifest", func(bytes []byte) ([]any, []string, error) {
		return nil, []string{"text://hero.txt"}, nil
	}))
	db.WithFetch(fetch.Collection{
		"scene.manifest": []byte("ignored"),
		"hero.txt":       []byte("hello"),
	})

	parent, err := db.Ensure(assetpath.MustParse("manifest://scene.manifest"))
	require.NoError(t, err)
	for i := 0; i < 3 && db.IsBusy(); i++ {
		require.NoError(t, db.Maintain())
	}
	deps := parent.Dependencies(db.Storage())
	require.Len(t, deps, 1)
	child := deps[0]

	require.NoError(t, db.Unload(parent))

	_, parentFound := db.Find(assetpath.MustParse("manifest://scene.manifest"))
	assert.False(t, parentFound)
	assert.False(t, db.Storage().IsAlive(child.Entity))
}

// TestWaitUntilQuiescentDrainsDeferredWork covers worked scenario 5 at
// the database level: a Deferred-backed engine resolves asynchronously,
// and WaitUntilQuiescent blocks until it does.
func TestWaitUntilQuiescentDrainsDeferredWork(t *testing.T) {
	inner := fetch.Collection{"hero.txt": []byte("hello")}
	deferredEngine := fetch.NewDeferred(inner, 2)
	defer deferredEngine.Close()

	db := assetdb.New(nil, assetdb.NewMetrics(nil))
	db.WithProtocol(protocol.NewTextAssetProtocol())
	db.WithFetch(deferredEngine)

	h, err := db.Ensure(assetpath.MustParse("text://hero.txt"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, assetdb.WaitUntilQuiescent(ctx, db, 5*time.Millisecond))

	content, err := asset.Access[protocol.TextContent](db.Storage(), h)
	require.NoError(t, err)
	assert.Equal(t, "hello", content.Value)
}

// TestEventsFireInPriorityOrder checks that AssetReady dispatches through
// the global bus after a successful tick.
func TestEventsFireInPriorityOrder(t *testing.T) {
	db := assetdb.New(nil, assetdb.NewMetrics(nil))
	db.WithProtocol(protocol.NewTextAssetProtocol())
	db.WithFetch(fetch.Collection{"hero.txt": []byte("hello")})

	var order []string
	db.Events().Subscribe(10, func(ev events.Event) {
		if _, ok := ev.(events.AssetReady); ok {
			order = append(order, "low")
		}
	})
	db.Events().Subscribe(0, func(ev events.Event) {
		if _, ok := ev.(events.AssetReady); ok {
			order = append(order, "high")
		}
	})

	_, err := db.Ensure(assetpath.MustParse("text://hero.txt"))
	require.NoError(t, err)
	require.NoError(t, db.Maintain())

	require.Len(t, order, 2)
	assert.Equal(t, []string{"high", "low"}, order)
}

func TestFindReportsUnknownPathAsMissing(t *testing.T) {
	db := assetdb.New(nil, assetdb.NewMetrics(nil))
	_, found := db.Find(assetpath.MustParse("text://nope.txt"))
	assert.False(t, found)
}

func TestKindHelpersClassifyErrors(t *testing.T) {
	err := apperrors.NewNoProtocol("binary://x", "binary")
	assert.True(t, apperrors.Is(err, apperrors.KindNoProtocol))
	assert.False(t, apperrors.Is(err, apperrors.KindFetchFailed))
	fmt.Sprint(err) // AssetError must implement error's Error() without panicking
}
