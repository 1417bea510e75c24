package domain

import "testing"

func TestSanitizeAttributesDropsReservedKeys(t *testing.T) {
	in := map[string]interface{}{
		"foo":      "bar",
		"uuid":     "spoofed",
		"owner":    "someone-else",
		"state":    "closed",
		"created":  "yesterday",
		"modified": "today",
		"type":     "order",
	}
	out := SanitizeAttributes(in)
	if len(out) != 1 || out["foo"] != "bar" {
		t.Fatalf("unexpected attributes %+v", out)
	}
	if _, ok := in["uuid"]; !ok {
		t.Fatalf("input map must not be mutated")
	}
}

func TestSanitizeAttributesNil(t *testing.T) {
	out := SanitizeAttributes(nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty map, got %#v", out)
	}
}

func TestCartOwnedBy(t *testing.T) {
	owner := "u1"
	c := Cart{OwnerID: &owner}
	if !c.OwnedBy("u1") {
		t.Fatalf("expected owner match")
	}
	if c.OwnedBy("u2") || c.OwnedBy("") {
		t.Fatalf("unexpected owner match")
	}
	if (Cart{}).OwnedBy("u1") {
		t.Fatalf("ownerless cart must not match")
	}
}
