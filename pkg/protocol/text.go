package protocol

// TextContent is the decoded component installed by TextAssetProtocol.
type TextContent struct {
	Value string
}

// NewTextAssetProtocol builds the "text" scheme protocol used throughout
// the engine's tests and scenario walkthroughs (scenario 1): it
// installs the UTF-8 decoded content as a string component, no
// dependencies.
func NewTextAssetProtocol() *BundleAssetProtocol {
	return NewBundleAssetProtocol("text", func(bytes []byte) ([]any, []string, error) {
		return []any{TextContent{Value: string(bytes)}}, nil, nil
	})
}
