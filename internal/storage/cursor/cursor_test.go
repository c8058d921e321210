package cursor

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := New(42, "alice", `total > 10`)
	token, err := Encode(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("decode = %+v, want %+v", got, want)
	}
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"not base64":  "%%%",
		"not json":    "bm90LWpzb24=",
		"missing seq": "e30=",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(token); err == nil {
				t.Fatalf("expected error for %q", token)
			}
		})
	}
}

func TestHashQuery(t *testing.T) {
	if got := HashQuery("", ""); got != "" {
		t.Fatalf("expected empty hash for empty query, got %q", got)
	}
	if HashQuery("ab", "c") == HashQuery("a", "bc") {
		t.Fatal("expected distinct hashes for shifted parts")
	}
	if HashQuery("alice", "") != HashQuery("alice", "") {
		t.Fatal("expected stable hash")
	}
}

func TestValidate(t *testing.T) {
	c := New(7, "alice", "total > 10")
	if err := Validate(c, "alice", "total > 10"); err != nil {
		t.Fatalf("validate same query: %v", err)
	}
	if err := Validate(c, "bob", "total > 10"); !errors.Is(err, ErrQueryChanged) {
		t.Fatalf("expected ErrQueryChanged, got %v", err)
	}
	if err := Validate(c, "alice", ""); !errors.Is(err, ErrQueryChanged) {
		t.Fatalf("expected ErrQueryChanged, got %v", err)
	}
}
