package core

import (
	"encoding/hex"
	"fmt"
)

// OIDSize is the width of a SHA-1 Git object id in bytes.
const OIDSize = 20

// OID is an opaque content hash handle assigned by the object store.
// Equality is byte-equality; the zero value denotes "no object".
type OID [OIDSize]byte

// ZeroOID is the sentinel value meaning "no object yet".
var ZeroOID OID

// ParseOID decodes a 40-character hex string as produced by every plumbing
// command that emits an object id on stdout.
func ParseOID(s string) (OID, error) {
	var oid OID
	if len(s) != OIDSize*2 {
		return oid, fmt.Errorf("acidfs: malformed object id %q", s)
	}
	n, err := hex.Decode(oid[:], []byte(s))
	if err != nil || n != OIDSize {
		return oid, fmt.Errorf("acidfs: malformed object id %q: %w", s, err)
	}
	return oid, nil
}

// String renders the OID as the 40-character hex form Git expects on the
// command line and in tree/commit object bodies.
func (o OID) String() string {
	return hex.EncodeToString(o[:])
}

// IsZero reports whether this is the sentinel "no object" value.
func (o OID) IsZero() bool {
	return o == ZeroOID
}
