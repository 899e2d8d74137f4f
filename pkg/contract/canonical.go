// Copyright 2025 Certen Protocol
//
package contract

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Blockstream/asset-registry/pkg/assetid"
)

// CanonicalJSON re-serializes raw into the form committed to on-chain:
// recursively sorted object keys and no insignificant whitespace.
// encoding/json already sorts map[string]interface{} keys on encode,
// so round-tripping through a generic interface{} gets us canonical
// form for free; UseNumber avoids float64 rounding of large integer
// fields along the way. HTML escaping is disabled: the hash input must
// carry `&`, `<` and `>` literally, not as \u-escapes.
func CanonicalJSON(raw json.RawMessage) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data")
	}

	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	// Encode appends a newline that is not part of the canonical form.
	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

// ComputeHash is the contract hash committed to by an asset's entropy:
// a single round of SHA-256 over the contract's canonical JSON. Unlike
// chainhash.Hash elsewhere in this codebase, this is a single round,
// not SHA256d - the sidechain deliberately only commits to a single
// hash here.
func ComputeHash(raw json.RawMessage) (assetid.ContractHash, error) {
	canon, err := CanonicalJSON(raw)
	if err != nil {
		return assetid.ContractHash{}, err
	}
	return assetid.ContractHash(sha256.Sum256(canon)), nil
}
