// Copyright 2025 Certen Protocol
//
// Package assetid implements the identifiers and commitment derivation
// used to bind an asset record to the on-chain issuance it claims to
// represent: asset ids, contract hashes, outpoints and the entropy/tag
// computation that ties them together.
//
// Hash display follows the same convention the sidechain uses for
// transaction ids: the in-memory representation is the raw, big-endian
// digest bytes, but String() reverses them for human/API display. That
// convention is provided for free by chainhash.Hash, which every type
// here is built on.
package assetid

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// AssetId is the primary key of a registry record: the commitment
// derived from the issuance prevout and the contract hash.
type AssetId chainhash.Hash

// ContractHash is a single (not double) SHA-256 of the canonical
// contract JSON. It reuses chainhash.Hash purely for its reversed-hex
// display convention; the hashing itself is single-round.
type ContractHash chainhash.Hash

// Txid identifies an on-chain transaction.
type Txid chainhash.Hash

func (id AssetId) String() string { return chainhash.Hash(id).String() }

func (h ContractHash) String() string { return chainhash.Hash(h).String() }

func (t Txid) String() string { return chainhash.Hash(t).String() }

func (id AssetId) Bytes() [32]byte { return [32]byte(id) }

func (h ContractHash) Bytes() [32]byte { return [32]byte(h) }

// Equal reports whether two asset ids refer to the same commitment.
func (id AssetId) Equal(other AssetId) bool { return id == other }

// Equal reports whether two contract hashes are identical.
func (h ContractHash) Equal(other ContractHash) bool { return h == other }

// Equal reports whether two txids are identical.
func (t Txid) Equal(other Txid) bool { return t == other }

// hashFromHex parses a displayed (byte-reversed) hash. Unlike
// chainhash.NewHashFromStr it refuses short input rather than
// zero-padding it.
func hashFromHex(s string) (chainhash.Hash, error) {
	if len(s) != chainhash.MaxHashStringSize {
		return chainhash.Hash{}, fmt.Errorf("invalid hash length %d, want %d", len(s), chainhash.MaxHashStringSize)
	}
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return *h, nil
}

func AssetIdFromHex(s string) (AssetId, error) {
	h, err := hashFromHex(s)
	if err != nil {
		return AssetId{}, fmt.Errorf("invalid asset id: %w", err)
	}
	return AssetId(h), nil
}

func ContractHashFromHex(s string) (ContractHash, error) {
	h, err := hashFromHex(s)
	if err != nil {
		return ContractHash{}, fmt.Errorf("invalid contract hash: %w", err)
	}
	return ContractHash(h), nil
}

func TxidFromHex(s string) (Txid, error) {
	h, err := hashFromHex(s)
	if err != nil {
		return Txid{}, fmt.Errorf("invalid txid: %w", err)
	}
	return Txid(h), nil
}

func (id AssetId) MarshalJSON() ([]byte, error) { return json.Marshal(id.String()) }

func (id *AssetId) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid asset id json: %w", err)
	}
	parsed, err := AssetIdFromHex(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (h ContractHash) MarshalJSON() ([]byte, error) { return json.Marshal(h.String()) }

func (h *ContractHash) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid contract hash json: %w", err)
	}
	parsed, err := ContractHashFromHex(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func (t Txid) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *Txid) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid txid json: %w", err)
	}
	parsed, err := TxidFromHex(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
