package fetch_test

import (
	"testing"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/fetch"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRouterHigherPriorityWins covers worked scenario 4: two routes'
// patterns both match the same path, and the higher-priority one serves
// the request.
func TestRouterHigherPriorityWins(t *testing.T) {
	r := fetch.NewRouter(
		fetch.RouterRoute{Pattern: "*.txt", Priority: 1, Engine: engineFunc([]byte("low"), nil)},
		fetch.RouterRoute{Pattern: "hero.txt", Priority: 10, Engine: engineFunc([]byte("high"), nil)},
	)

	bundle, err := r.LoadBytes(assetpath.MustParse("text://hero.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("high"), bundle.Components[0].(lifecycle.BytesReadyToProcess).Bytes)
}

func TestRouterNoMatchErrors(t *testing.T) {
	r := fetch.NewRouter(fetch.RouterRoute{Pattern: "*.png", Priority: 0, Engine: engineFunc([]byte("x"), nil)})
	_, err := r.LoadBytes(assetpath.MustParse("text://hero.txt"))
	assert.Error(t, err)
}

func TestRouterTiesKeepRegistrationOrder(t *testing.T) {
	r := fetch.NewRouter(
		fetch.RouterRoute{Pattern: "*.txt", Priority: 1, Engine: engineFunc([]byte("first"), nil)},
		fetch.RouterRoute{Pattern: "*.txt", Priority: 1, Engine: engineFunc([]byte("second"), nil)},
	)
	bundle, err := r.LoadBytes(assetpath.MustParse("text://hero.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), bundle.Components[0].(lifecycle.BytesReadyToProcess).Bytes)
}
