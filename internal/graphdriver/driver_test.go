package graphdriver

import (
	"context"
	"errors"
	"testing"
)

func TestFakeRecordsQueries(t *testing.T) {
	f := &Fake{Results: []Record{{"sm0": "abc"}}}
	out, err := f.Run(context.Background(), "MATCH (sm0:Submodel) RETURN sm0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Queries) != 1 || f.Queries[0] != "MATCH (sm0:Submodel) RETURN sm0" {
		t.Fatalf("query not recorded: %+v", f.Queries)
	}
	if len(out) != 1 || out[0]["sm0"] != "abc" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestFakeReturnsConfiguredError(t *testing.T) {
	wantErr := errors.New("boom")
	f := &Fake{Err: wantErr}
	_, err := f.Run(context.Background(), "MATCH (n) RETURN n")
	if !errors.Is(err, wantErr) {
		t.Fatalf("got error %v, want %v", err, wantErr)
	}
}

func TestFakeCloseIsNoop(t *testing.T) {
	f := &Fake{}
	if err := f.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
