package util

import "testing"

func TestHashKey(t *testing.T) {
	id := "0192f1c2-7a3b-7c4d-8e5f-001122334455"
	got := HashKey(id)
	if got != HashKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestHashKeySeparatesParts(t *testing.T) {
	if HashKey("ab", "c") == HashKey("a", "bc") {
		t.Fatalf("expected part boundaries to change the hash")
	}
	if HashKey("session") != HashKey("session") {
		t.Fatalf("expected stable hash")
	}
}
