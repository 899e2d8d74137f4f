// Copyright 2025 Certen Protocol
//
package assetid

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Entropy computes the sidechain's standard asset entropy: the
// two-leaf Bitcoin-style Merkle root of SHA256d(serialize(prevout))
// and the contract hash.
func Entropy(prevout OutPoint, ch ContractHash) chainhash.Hash {
	leaf0 := chainhash.DoubleHashB(prevout.serialize())
	leaf1 := ch.Bytes()

	combined := make([]byte, 0, 64)
	combined = append(combined, leaf0...)
	combined = append(combined, leaf1[:]...)
	return chainhash.DoubleHashH(combined)
}

// IdFromEntropy derives the asset id from its entropy per the
// sidechain's standard tagging rule: SHA256d(entropy || 0^32).
func IdFromEntropy(entropy chainhash.Hash) AssetId {
	var zero [32]byte
	combined := make([]byte, 0, 64)
	combined = append(combined, entropy[:]...)
	combined = append(combined, zero[:]...)
	return AssetId(chainhash.DoubleHashH(combined))
}

// DeriveAssetId is the full commitment chain: prevout + contract hash
// -> entropy -> asset id.
func DeriveAssetId(prevout OutPoint, ch ContractHash) AssetId {
	return IdFromEntropy(Entropy(prevout, ch))
}
