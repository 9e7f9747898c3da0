// Package assetpath parses and manipulates protocol://path?meta asset
// identifiers.
//
// Grammar:
//
//	path   := [ protocol "://" ] body [ "?" meta ]
//	body := segment ("/" segment)*
//	meta := item ("&" item)*
//	item := key [ "=" value ]
package assetpath

import (
	"net/url"
	"strings"

	"github.com/brain2-labs/assetengine/pkg/apperrors"
)

// MetaItem is one key[=value] pair from the meta segment, in the order it
// appeared in the source string.
type MetaItem struct {
	Key   string
	Value string
}

// Path is a copy-on-write asset identifier: the original string plus its
// already-parsed protocol/body/meta parts. Copies share the backing raw
// string and only diverge when WithBody is used.
type Path struct {
	raw      string
	protocol string
	body     string
	meta     []MetaItem
}

// Parse decodes raw into a Path, percent-decoding protocol, keys, and
// values. Structural "/" and "?" and "&" characters are never decoded.
func Parse(raw string) (Path, error) {
	rest := raw

	protocol := ""
	if idx := strings.Index(rest, "://"); idx >= 0 {
		encProto := rest[:idx]
		decProto, err := url.QueryUnescape(encProto)
		if err != nil {
			return Path{}, apperrors.NewPathMalformed(raw, "protocol is not valid percent-encoding")
		}
		protocol = decProto
		rest = rest[idx+3:]
	}

	body := rest
	metaRaw := ""
	if idx := strings.Index(rest, "?"); idx >= 0 {
		body = rest[:idx]
		metaRaw = rest[idx+1:]
	}

	var meta []MetaItem
	if metaRaw != "" {
		for _, item := range strings.Split(metaRaw, "&") {
			if item == "" {
				continue
			}
			k, v, hasValue := strings.Cut(item, "=")
			dk, err := url.QueryUnescape(k)
			if err != nil {
				return Path{}, apperrors.NewPathMalformed(raw, "meta key is not valid percent-encoding")
			}
			dv := ""
			if hasValue {
				dv, err = url.QueryUnescape(v)
				if err != nil {
					return Path{}, apperrors.NewPathMalformed(raw, "meta value is not valid percent-encoding")
				}
			}
			meta = append(meta, MetaItem{Key: dk, Value: dv})
		}
	}

	return Path{raw: raw, protocol: protocol, body: body, meta: meta}, nil
}

// MustParse is Parse but panics on error; for use with literal test paths.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the original, unnormalized source string.
func (p Path) String() string { return p.raw }

// Protocol returns the percent-decoded scheme, or "" if none was present.
func (p Path) Protocol() string { return p.protocol }

// Body returns the path body (before any "?") exactly as written; unlike
// the protocol and meta items, it is not percent-decoded.
func (p Path) Body() string { return p.body }

// Meta returns the ordered meta items.
func (p Path) Meta() []MetaItem {
	out := make([]MetaItem, len(p.meta))
	copy(out, p.meta)
	return out
}

// MetaValue looks up the first meta item with the given key.
func (p Path) MetaValue(key string) (string, bool) {
	for _, m := range p.meta {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// Segments splits Body on "/".
func (p Path) Segments() []string {
	if p.body == "" {
		return nil
	}
	return strings.Split(p.body, "/")
}

// Extension returns the tail of the last segment after its last ".", or ""
// if the last segment has none.
func (p Path) Extension() string {
	segs := p.Segments()
	if len(segs) == 0 {
		return ""
	}
	last := segs[len(segs)-1]
	idx := strings.LastIndex(last, ".")
	if idx < 0 || idx == len(last)-1 {
		return ""
	}
	return last[idx+1:]
}

// Key is the normalized identity used for equality, hashing, and the
// database's path lookup index: protocol and body verbatim, meta sorted
// by key so item order never affects equality. Items that repeat a key
// are all kept, in their original relative order.
func (p Path) Key() string {
	var b strings.Builder
	b.WriteString(p.protocol)
	b.WriteString("://")
	b.WriteString(p.body)
	if len(p.meta) > 0 {
		b.WriteByte('?')
		sorted := append([]MetaItem(nil), p.meta...)
		sortMeta(sorted)
		for i, m := range sorted {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(m.Key)
			b.WriteByte('=')
			b.WriteString(m.Value)
		}
	}
	return b.String()
}

func sortMeta(items []MetaItem) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j-1].Key > items[j].Key; j-- {
			items[j-1], items[j] = items[j], items[j-1]
		}
	}
}

// Equal compares two paths by their normalized Key, not by raw string, so
// equivalent query-parameter orderings compare equal.
func (p Path) Equal(other Path) bool {
	return p.Key() == other.Key()
}

// WithBody returns a copy of p with a different body, used by Rewrite
// fetch engines. The receiver is left unmodified (copy-on-write).
func (p Path) WithBody(body string) Path {
	np := p
	np.body = body
	np.raw = np.protocol + "://" + body
	if len(p.meta) > 0 {
		np.raw += "?" + rebuildMeta(p.meta)
	}
	return np
}

func rebuildMeta(items []MetaItem) string {
	var b strings.Builder
	for i, m := range items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(m.Key)
		if m.Value != "" {
			b.WriteByte('=')
			b.WriteString(m.Value)
		}
	}
	return b.String()
}
