package assetpath

import "testing"

func TestParseBasic(t *testing.T) {
	p, err := Parse("text://lorem.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Protocol() != "text" {
		t.Errorf("protocol = %q, want text", p.Protocol())
	}
	if p.Body() != "lorem.txt" {
		t.Errorf("body = %q, want lorem.txt", p.Body())
	}
	if p.Extension() != "txt" {
		t.Errorf("extension = %q, want txt", p.Extension())
	}
}

func TestParseMetaFlagsAndValues(t *testing.T) {
	p, err := Parse("text://a/b.txt?lang=en&cached")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := p.MetaValue("lang"); !ok || got != "en" {
		t.Errorf("lang meta = %q,%v want en,true", got, ok)
	}
	if got, ok := p.MetaValue("cached"); !ok || got != "" {
		t.Errorf("cached meta = %q,%v want \"\",true", got, ok)
	}
	if segs := p.Segments(); len(segs) != 2 || segs[0] != "a" || segs[1] != "b.txt" {
		t.Errorf("segments = %v", segs)
	}
}

func TestEqualityIgnoresMetaOrder(t *testing.T) {
	a := MustParse("text://x?b=2&a=1")
	b := MustParse("text://x?a=1&b=2")
	if !a.Equal(b) {
		t.Errorf("expected paths to be equal regardless of meta order")
	}
}

func TestEqualityDiffersOnProtocolOrBody(t *testing.T) {
	a := MustParse("text://x")
	b := MustParse("bin://x")
	if a.Equal(b) {
		t.Errorf("different protocols should not compare equal")
	}
	c := MustParse("text://y")
	if a.Equal(c) {
		t.Errorf("different bodies should not compare equal")
	}
}

func TestNoProtocol(t *testing.T) {
	p, err := Parse("just/a/path.bin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Protocol() != "" {
		t.Errorf("protocol = %q, want empty", p.Protocol())
	}
	if p.Body() != "just/a/path.bin" {
		t.Errorf("body = %q", p.Body())
	}
}

func TestPercentDecoding(t *testing.T) {
	p, err := Parse("text://a%20b.txt?k%65y=va%6Cue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Body() != "a%20b.txt" {
		t.Errorf("body = %q, want 'a%%20b.txt' (body is not decoded)", p.Body())
	}
	if v, ok := p.MetaValue("key"); !ok || v != "value" {
		t.Errorf("meta = %q,%v want value,true", v, ok)
	}
}

func TestWithBodyPreservesReceiver(t *testing.T) {
	orig := MustParse("text://a.txt?x=1")
	rewritten := orig.WithBody("b.txt")
	if orig.Body() != "a.txt" {
		t.Errorf("original path mutated: %q", orig.Body())
	}
	if rewritten.Body() != "b.txt" {
		t.Errorf("rewritten body = %q, want b.txt", rewritten.Body())
	}
	if rewritten.Protocol() != "text" {
		t.Errorf("rewritten protocol = %q, want text", rewritten.Protocol())
	}
}
