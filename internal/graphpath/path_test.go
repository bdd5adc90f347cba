package graphpath

import "testing"

func TestParseRoots(t *testing.T) {
	cases := []struct {
		path string
		root RootKind
	}{
		{"$aas#idShort", RootAAS},
		{"$sm#idShort", RootSM},
		{"$cd#id", RootCD},
		{"$sme.Material#value", RootSME},
	}
	for _, c := range cases {
		pp, err := Parse(c.path)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c.path, err)
		}
		if pp.Root != c.root {
			t.Fatalf("Parse(%q): root = %v, want %v", c.path, pp.Root, c.root)
		}
	}
}

func TestParseSMESegments(t *testing.T) {
	pp, err := Parse("$sme.FileVersion[].FileVersionId[2]#value")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pp.SMESegments) != 2 {
		t.Fatalf("got %d segments, want 2", len(pp.SMESegments))
	}
	if pp.SMESegments[0].Name != "FileVersion" || pp.SMESegments[0].Kind != SegmentArrayAll {
		t.Fatalf("segment 0 = %+v, want name=FileVersion kind=ArrayAll", pp.SMESegments[0])
	}
	if pp.SMESegments[1].Name != "FileVersionId" || pp.SMESegments[1].Kind != SegmentArrayIndexed || pp.SMESegments[1].Index != 2 {
		t.Fatalf("segment 1 = %+v, want name=FileVersionId kind=ArrayIndexed index=2", pp.SMESegments[1])
	}
}

func TestParseAttributeSteps(t *testing.T) {
	pp, err := Parse("$sme.Ref#keys[0].value")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pp.Attributes) != 2 {
		t.Fatalf("got %d attribute steps, want 2", len(pp.Attributes))
	}
	if pp.Attributes[0].Kind != StepKeys || !pp.Attributes[0].HasIndex || pp.Attributes[0].Index != 0 {
		t.Fatalf("attribute 0 = %+v, want keys[0]", pp.Attributes[0])
	}
	if pp.Attributes[1].Kind != StepValue {
		t.Fatalf("attribute 1 = %+v, want value", pp.Attributes[1])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"missingHash",
		"$aas#idShort#extra",
		"$bogus#idShort",
		"$sme.Material#bogusAttribute",
		"$sme.Material[x]#value",
		"$sme.Material#keys[x]",
		"$sme#value",
	}
	for _, path := range cases {
		if _, err := Parse(path); err == nil {
			t.Fatalf("Parse(%q): expected error, got nil", path)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	paths := []string{
		"$aas#idShort",
		"$sm#idShort",
		"$sme.Material#value",
		"$sme.FileVersion[].FileVersionId#value",
		"$sme.myElement[0].subElement#value",
		"$sm#semanticId",
		"$sme.Ref#keys[0].value",
	}
	for _, path := range paths {
		pp, err := Parse(path)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", path, err)
		}
		if got := pp.String(); got != path {
			t.Fatalf("round-trip mismatch: got %q, want %q", got, path)
		}
	}
}
