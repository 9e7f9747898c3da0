package asset_test

import (
	"testing"

	"github.com/brain2-labs/assetengine/pkg/asset"
	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Content struct{ Text string }

func TestAccessAndEnsure(t *testing.T) {
	s := ecs.New()
	e := s.Spawn(Content{Text: "hi"})
	h := asset.Handle{Entity: e}

	got, err := asset.Access[Content](s, h)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Text)

	got2, err := asset.Ensure[Content](s, h, func() Content { return Content{Text: "default"} })
	require.NoError(t, err)
	assert.Equal(t, "hi", got2.Text, "ensure must not overwrite an existing component")
}

func TestDependenciesRoundTrip(t *testing.T) {
	s := ecs.New()
	parent := asset.Handle{Entity: s.Spawn()}
	child := asset.Handle{Entity: s.Spawn()}
	require.NoError(t, s.Relate(ecs.DependencyRelation, parent.Entity, child.Entity))

	deps := parent.Dependencies(s)
	require.Len(t, deps, 1)
	assert.Equal(t, child, deps[0])

	dependents := child.Dependents(s)
	require.Len(t, dependents, 1)
	assert.Equal(t, parent, dependents[0])
}

type fakeResolver struct {
	calls int
	h     asset.Handle
}

func (f *fakeResolver) Ensure(path assetpath.Path) (asset.Handle, error) {
	f.calls++
	return f.h, nil
}

func TestRefResolvesOnceAndCaches(t *testing.T) {
	s := ecs.New()
	resolver := &fakeResolver{h: asset.Handle{Entity: s.Spawn()}}
	ref := asset.NewRef(assetpath.MustParse("text://a.txt"))

	assert.False(t, ref.IsResolved())
	h1, err := ref.Resolve(resolver)
	require.NoError(t, err)
	h2, err := ref.Resolve(resolver)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, resolver.calls, "second Resolve must use the cache, not call Ensure again")
}

type fakeRefCounter struct {
	counts map[ecs.Entity]int
}

func newFakeRefCounter() *fakeRefCounter {
	return &fakeRefCounter{counts: make(map[ecs.Entity]int)}
}

func (f *fakeRefCounter) Retain(h asset.Handle) { f.counts[h.Entity]++ }
func (f *fakeRefCounter) Release(h asset.Handle) { f.counts[h.Entity]-- }

func TestSmartRefCloneAndRelease(t *testing.T) {
	s := ecs.New()
	h := asset.Handle{Entity: s.Spawn()}
	counter := newFakeRefCounter()
	path := assetpath.MustParse("text://a.txt")

	r1 := asset.NewSmartRef(counter, path, h)
	r2 := r1.Clone()
	assert.Equal(t, 2, counter.counts[h.Entity])

	r1.Release()
	assert.Equal(t, 1, counter.counts[h.Entity])
	r2.Release()
	assert.Equal(t, 0, counter.counts[h.Entity])
}

func TestSmartRefEqualityByPath(t *testing.T) {
	s := ecs.New()
	counter := newFakeRefCounter()
	h1 := asset.Handle{Entity: s.Spawn()}
	h2 := asset.Handle{Entity: s.Spawn()}

	a := asset.NewSmartRef(counter, assetpath.MustParse("text://x"), h1)
	b := asset.NewSmartRef(counter, assetpath.MustParse("text://x"), h2)
	c := asset.NewSmartRef(counter, assetpath.MustParse("text://y"), h2)

	assert.True(t, a.Equal(b), "smart refs to the same path must compare equal regardless of handle")
	assert.False(t, a.Equal(c))
}
