// Copyright 2025 Certen Protocol
//
// Package contract implements the issuer-authored JSON contract: its
// strict schema (AssetFields), canonical serialization, and the
// single-round SHA-256 contract hash committed to on-chain.
package contract

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HexBytes marshals as a lowercase hex string rather than Go's default
// base64 encoding for []byte, matching the contract's issuer_pubkey
// encoding.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	*h = decoded
	return nil
}

// Entity is the tagged union of external entities an asset can be
// linked to. Only the domain-name variant exists today.
type Entity struct {
	Domain string `json:"domain"`
}

func (e Entity) String() string {
	return fmt.Sprintf("domain:%s", e.Domain)
}

// DomainVerificationMethod selects how the entity link is proven.
type DomainVerificationMethod string

const (
	DomainVerificationHTTP DomainVerificationMethod = "http"
	DomainVerificationDNS  DomainVerificationMethod = "dns"
)

// Normalize defaults an empty method to http: a request that omits
// domain_verification_method entirely is treated as asking for the
// HTTP well-known check.
func (m DomainVerificationMethod) Normalize() DomainVerificationMethod {
	if m == "" {
		return DomainVerificationHTTP
	}
	return m
}

func (m DomainVerificationMethod) Valid() bool {
	switch m.Normalize() {
	case DomainVerificationHTTP, DomainVerificationDNS:
		return true
	default:
		return false
	}
}
