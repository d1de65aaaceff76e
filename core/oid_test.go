package core

import "testing"

func TestParseOIDRoundTrip(t *testing.T) {
	const hex = "da39a3ee5e6b4b0d3255bfef95601890afd80709"
	oid, err := ParseOID(hex)
	if err != nil {
		t.Fatalf("ParseOID failed: %v", err)
	}
	if oid.String() != hex {
		t.Errorf("got %q, want %q", oid.String(), hex)
	}
	if oid.IsZero() {
		t.Error("non-zero oid reported as zero")
	}
}

func TestParseOIDInvalid(t *testing.T) {
	cases := []string{"", "not-hex-at-all", "da39a3", "zz39a3ee5e6b4b0d3255bfef95601890afd80709"}
	for _, c := range cases {
		if _, err := ParseOID(c); err == nil {
			t.Errorf("ParseOID(%q) should have failed", c)
		}
	}
}

func TestZeroOIDIsZero(t *testing.T) {
	if !ZeroOID.IsZero() {
		t.Error("ZeroOID.IsZero() should be true")
	}
}
