// Copyright 2025 Certen Protocol
//
package assetid

import (
	"encoding/binary"
	"fmt"
)

// OutPoint identifies the UTXO consumed by an issuance.
type OutPoint struct {
	Txid Txid   `json:"txid"`
	Vout uint32 `json:"vout"`
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Txid, o.Vout)
}

// TxInput identifies the input that performed an issuance.
type TxInput struct {
	Txid Txid   `json:"txid"`
	Vin  uint32 `json:"vin"`
}

// serialize produces the wire-style byte encoding of an outpoint: the
// 32-byte txid in its natural (non-reversed) byte order, followed by
// the little-endian output index. This is the exact byte sequence the
// entropy derivation hashes.
func (o OutPoint) serialize() []byte {
	buf := make([]byte, 36)
	copy(buf[:32], o.Txid[:])
	binary.LittleEndian.PutUint32(buf[32:], o.Vout)
	return buf
}
