// Copyright 2025 Certen Protocol
//
// Package txtest builds minimal consensus-serialized issuance
// transactions for tests that need a mock chain indexer to serve
// something GetTx can actually decode.
package txtest

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/Blockstream/asset-registry/pkg/assetid"
)

// BuildIssuanceTx serializes an unblinded one-input, one-output
// transaction whose single input spends prevout and carries an
// issuance with the given entropy field. It returns the consensus hex
// encoding and the transaction's id.
func BuildIssuanceTx(prevout assetid.OutPoint, entropy [32]byte) (string, assetid.Txid) {
	var b []byte

	// version, no witness data
	b = append(b, 0x02, 0x00, 0x00, 0x00, 0x00)

	// a single input spending prevout, with the issuance flag set on
	// the serialized index, an empty script_sig and final sequence
	b = append(b, 0x01)
	b = append(b, prevout.Txid[:]...)
	vout := make([]byte, 4)
	binary.LittleEndian.PutUint32(vout, prevout.Vout|1<<31)
	b = append(b, vout...)
	b = append(b, 0x00)
	b = append(b, 0xff, 0xff, 0xff, 0xff)

	// the issuance itself: zero blinding nonce, the entropy under
	// test, an explicit amount of one satoshi, null inflation keys
	b = append(b, make([]byte, 32)...)
	b = append(b, entropy[:]...)
	b = append(b, 0x01)
	b = append(b, make([]byte, 7)...)
	b = append(b, 0x01)
	b = append(b, 0x00)

	// one unblinded output: explicit asset and one-satoshi value, null
	// nonce, empty script_pubkey
	b = append(b, 0x01)
	b = append(b, 0x01)
	b = append(b, make([]byte, 32)...)
	b = append(b, 0x01)
	b = append(b, make([]byte, 7)...)
	b = append(b, 0x01)
	b = append(b, 0x00)
	b = append(b, 0x00)

	// locktime
	b = append(b, 0x00, 0x00, 0x00, 0x00)

	// with no witness data the serialization already equals the txid
	// preimage
	return hex.EncodeToString(b), assetid.Txid(chainhash.DoubleHashH(b))
}
