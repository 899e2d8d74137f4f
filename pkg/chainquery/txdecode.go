// Copyright 2025 Certen Protocol
//
package chainquery

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/Blockstream/asset-registry/pkg/assetid"
)

// The two high bits of a serialized prevout index carry per-input
// flags; the index itself lives in the low 30 bits.
const (
	outpointIssuanceFlag = uint32(1) << 31
	outpointPeginFlag    = uint32(1) << 30
	outpointIndexMask    = ^(outpointIssuanceFlag | outpointPeginFlag)
)

type txReader struct {
	buf []byte
	pos int
}

func (r *txReader) take(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.pos < n {
		return nil, fmt.Errorf("transaction truncated at byte %d", r.pos)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *txReader) readByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *txReader) readUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// readVarInt reads a Bitcoin-style compact size.
func (r *txReader) readVarInt() (uint64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case 0xfd:
		v, err := r.take(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(v)), nil
	case 0xfe:
		v, err := r.take(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(v)), nil
	case 0xff:
		v, err := r.take(8)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(v), nil
	default:
		return uint64(b), nil
	}
}

// skipConfidential consumes one confidential-encoded element: a prefix
// byte followed by nothing (null), an explicit payload of explicitLen
// bytes, or a 32-byte commitment under either commitment prefix.
func (r *txReader) skipConfidential(explicitLen int, commitA, commitB byte) error {
	p, err := r.readByte()
	if err != nil {
		return err
	}
	switch p {
	case 0x00:
		return nil
	case 0x01:
		_, err := r.take(explicitLen)
		return err
	case commitA, commitB:
		_, err := r.take(32)
		return err
	default:
		return fmt.Errorf("invalid confidential prefix 0x%02x at byte %d", p, r.pos-1)
	}
}

func (r *txReader) skipConfValue() error { return r.skipConfidential(8, 0x08, 0x09) }
func (r *txReader) skipConfAsset() error { return r.skipConfidential(32, 0x0a, 0x0b) }
func (r *txReader) skipConfNonce() error { return r.skipConfidential(32, 0x02, 0x03) }

func isNullPrevout(txid []byte, vout uint32) bool {
	if vout != 0xffffffff {
		return false
	}
	for _, b := range txid {
		if b != 0 {
			return false
		}
	}
	return true
}

// decodeTx decodes the consensus serialization of a confidential
// sidechain transaction far enough to expose its inputs (prevout,
// issuance flag, asset entropy) and recompute its txid. Witness data,
// when present, sits entirely after the locktime and never enters the
// txid, so it is left unparsed.
func decodeTx(raw []byte) (*Tx, error) {
	r := &txReader{buf: raw}

	version, err := r.take(4)
	if err != nil {
		return nil, err
	}
	flag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if flag > 1 {
		return nil, fmt.Errorf("invalid witness flag 0x%02x", flag)
	}

	bodyStart := r.pos

	nIn, err := r.readVarInt()
	if err != nil {
		return nil, err
	}
	if nIn > uint64(len(raw)) {
		return nil, fmt.Errorf("implausible input count %d", nIn)
	}
	inputs := make([]TxIn, 0, nIn)
	for i := uint64(0); i < nIn; i++ {
		prevTxid, err := r.take(32)
		if err != nil {
			return nil, err
		}
		vout, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		hasIssuance := false
		if !isNullPrevout(prevTxid, vout) {
			hasIssuance = vout&outpointIssuanceFlag != 0
			vout &= outpointIndexMask
		}

		scriptLen, err := r.readVarInt()
		if err != nil {
			return nil, err
		}
		if _, err := r.take(int(scriptLen)); err != nil {
			return nil, err
		}
		if _, err := r.take(4); err != nil { // sequence
			return nil, err
		}

		var entropy [32]byte
		if hasIssuance {
			if _, err := r.take(32); err != nil { // asset blinding nonce
				return nil, err
			}
			e, err := r.take(32)
			if err != nil {
				return nil, err
			}
			copy(entropy[:], e)
			if err := r.skipConfValue(); err != nil { // issuance amount
				return nil, err
			}
			if err := r.skipConfValue(); err != nil { // inflation keys
				return nil, err
			}
		}

		var prev assetid.Txid
		copy(prev[:], prevTxid)
		inputs = append(inputs, TxIn{
			PreviousOutput: assetid.OutPoint{Txid: prev, Vout: vout},
			HasIssuance:    hasIssuance,
			AssetEntropy:   entropy,
		})
	}

	nOut, err := r.readVarInt()
	if err != nil {
		return nil, err
	}
	if nOut > uint64(len(raw)) {
		return nil, fmt.Errorf("implausible output count %d", nOut)
	}
	for i := uint64(0); i < nOut; i++ {
		if err := r.skipConfAsset(); err != nil {
			return nil, err
		}
		if err := r.skipConfValue(); err != nil {
			return nil, err
		}
		if err := r.skipConfNonce(); err != nil {
			return nil, err
		}
		scriptLen, err := r.readVarInt()
		if err != nil {
			return nil, err
		}
		if _, err := r.take(int(scriptLen)); err != nil {
			return nil, err
		}
	}

	if _, err := r.take(4); err != nil { // locktime
		return nil, err
	}
	bodyEnd := r.pos

	if flag == 0 && r.pos != len(raw) {
		return nil, fmt.Errorf("trailing data after transaction")
	}

	// The txid hashes the serialization with the witness flag forced to
	// zero and the witness data (which follows the locktime) dropped.
	preimage := make([]byte, 0, 5+bodyEnd-bodyStart)
	preimage = append(preimage, version...)
	preimage = append(preimage, 0x00)
	preimage = append(preimage, raw[bodyStart:bodyEnd]...)

	return &Tx{
		Txid:  assetid.Txid(chainhash.DoubleHashH(preimage)),
		Input: inputs,
	}, nil
}
