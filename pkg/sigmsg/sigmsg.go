// Copyright 2025 Certen Protocol
//
// Package sigmsg implements the sidechain's Bitcoin-style signed-message
// scheme: a fixed prefix-and-varint message hash, verified with a
// 65-byte compact ECDSA signature over secp256k1 without using
// signature recovery (the signer's pubkey is always supplied
// separately and trusted as the claim under test, not derived from
// the signature).
package sigmsg

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const messagePrefix = "Bitcoin Signed Message:\n"

// Hash computes the sidechain's standard signed-message digest:
// SHA256d(0x18 || "Bitcoin Signed Message:\n" || varint(len(msg)) || msg).
func Hash(msg string) chainhash.Hash {
	buf := make([]byte, 0, 1+len(messagePrefix)+9+len(msg))
	buf = append(buf, 0x18)
	buf = append(buf, messagePrefix...)
	buf = appendVarInt(buf, uint64(len(msg)))
	buf = append(buf, msg...)
	return chainhash.DoubleHashH(buf)
}

func appendVarInt(buf []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(buf, byte(n))
	case n <= 0xffff:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(n))
		return append(append(buf, 0xfd), b...)
	case n <= 0xffffffff:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(n))
		return append(append(buf, 0xfe), b...)
	default:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, n)
		return append(append(buf, 0xff), b...)
	}
}

// ParsePubkey validates that pubkey parses as a compressed (33-byte)
// secp256k1 public key; uncompressed keys are rejected.
func ParsePubkey(pubkey []byte) (*secp256k1.PublicKey, error) {
	if len(pubkey) != secp256k1.PubKeyBytesLenCompressed {
		return nil, fmt.Errorf("invalid public key: want a %d-byte compressed key, got %d bytes",
			secp256k1.PubKeyBytesLenCompressed, len(pubkey))
	}
	pk, err := secp256k1.ParsePubKey(pubkey)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	return pk, nil
}

// Verify checks a compact (65-byte, flag-byte-prefixed) ECDSA signature
// over msg against the declared pubkey. The leading flag byte is
// discarded; recovery is never attempted - the pubkey is always
// supplied by the caller, not recovered from the signature.
func Verify(pubkeyBytes, signature []byte, msg string) error {
	pubkey, err := ParsePubkey(pubkeyBytes)
	if err != nil {
		return err
	}

	sig := signature
	if len(sig) == 65 {
		sig = sig[1:]
	}
	if len(sig) != 64 {
		return fmt.Errorf("invalid signature length: %d", len(signature))
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return fmt.Errorf("invalid signature: r overflows the group order")
	}
	if overflow := s.SetByteSlice(sig[32:64]); overflow {
		return fmt.Errorf("invalid signature: s overflows the group order")
	}

	digest := Hash(msg)
	if !ecdsa.NewSignature(&r, &s).Verify(digest[:], pubkey) {
		return fmt.Errorf("signature verification failed")
	}
	return nil
}

// DeletionMessage is the fixed schema a deletion signature must sign
// over: "remove {asset_id_hex} from registry".
func DeletionMessage(assetIDHex string) string {
	return fmt.Sprintf("remove %s from registry", assetIDHex)
}
