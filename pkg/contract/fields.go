// Copyright 2025 Certen Protocol
//
package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
)

// AssetFields is the issuer-chosen subset of the contract: both the
// data embedded in a record and the data validated against the
// contract. version is currently pinned to 0; unknown fields in the
// source JSON are rejected by ParseStrict, not silently dropped.
type AssetFields struct {
	Version      int      `json:"version"`
	IssuerPubkey HexBytes `json:"issuer_pubkey"`
	Name         string   `json:"name"`
	Ticker       *string  `json:"ticker,omitempty"`
	Collection   *string  `json:"collection,omitempty"`
	Precision    uint8    `json:"precision,omitempty"`
	Entity       Entity   `json:"entity"`
}

var (
	reName       = regexp.MustCompile(`^[[:ascii:]]{1,255}$`)
	reTicker     = regexp.MustCompile(`^[a-zA-Z0-9.\-]{3,24}$`)
	reCollection = regexp.MustCompile(`^[[:ascii:]]{1,255}$`)
)

// ParseStrict decodes a contract (or contract-shaped fields object)
// with unknown fields rejected, so that the contract <-> fields
// equality invariant can't be satisfied by smuggling extra data
// through unrecognized keys.
func ParseStrict(raw json.RawMessage) (AssetFields, error) {
	var f AssetFields
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return AssetFields{}, fmt.Errorf("invalid contract fields: %w", err)
	}
	return f, nil
}

// ValidateSyntax checks the field-level syntax rules from the asset
// validator's first pipeline stage. It does not touch the issuer
// pubkey (see pkg/sigmsg.ParsePubkey, kept out of this package to
// avoid a contract -> crypto import for a single check).
func (f AssetFields) ValidateSyntax() error {
	if f.Version != 0 {
		return fmt.Errorf("unknown version")
	}
	if f.Precision > 8 {
		return fmt.Errorf("precision out of range")
	}
	if !reName.MatchString(f.Name) {
		return fmt.Errorf("invalid name")
	}
	if f.Ticker != nil && !reTicker.MatchString(*f.Ticker) {
		return fmt.Errorf("invalid ticker")
	}
	if f.Collection != nil && !reCollection.MatchString(*f.Collection) {
		return fmt.Errorf("invalid collection")
	}
	if err := ValidateDomainName(f.Entity.Domain); err != nil {
		return fmt.Errorf("invalid entity domain name: %w", err)
	}
	return nil
}

// Equal reports structural equality, used for the fields <-> contract
// commitment check.
func (f AssetFields) Equal(other AssetFields) bool {
	return reflect.DeepEqual(f, other)
}

// NamespaceKey returns "{ticker}@{entity}" if a ticker is present, and
// an empty string (meaning "unconstrained") otherwise.
func (f AssetFields) NamespaceKey() string {
	if f.Ticker == nil {
		return ""
	}
	return fmt.Sprintf("%s@%s", *f.Ticker, f.Entity.String())
}
