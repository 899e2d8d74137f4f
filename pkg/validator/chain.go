// Copyright 2025 Certen Protocol
//
package validator

import (
	"bytes"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/Blockstream/asset-registry/pkg/assetid"
	"github.com/Blockstream/asset-registry/pkg/contract"
	"github.com/Blockstream/asset-registry/pkg/sigmsg"
)

func sigmsgPubkey(pubkey contract.HexBytes) (*secp256k1.PublicKey, error) {
	return sigmsg.ParsePubkey(pubkey)
}

func verifyDeletionSig(a *Asset, signature []byte) error {
	pubkey := []byte(a.Fields.IssuerPubkey)
	msg := sigmsg.DeletionMessage(a.AssetId.String())
	if err := sigmsg.Verify(pubkey, signature, msg); err != nil {
		return fmt.Errorf("invalid deletion signature: %w", err)
	}
	return nil
}

// verifyIssuanceTx binds the asset to a confirmed on-chain issuance
// input: the issuance txid/vin must exist, the input must carry an
// issuance flag, its prevout and entropy must match the asset's
// claimed commitment, and the transaction must be confirmed.
func (v *Validator) verifyIssuanceTx(a *Asset) error {
	tx, err := v.chain.GetTx(a.IssuanceTxin.Txid)
	if err != nil {
		return err
	}
	if tx == nil {
		return fmt.Errorf("issuance transaction not found")
	}
	if int(a.IssuanceTxin.Vin) >= len(tx.Input) {
		return fmt.Errorf("issuance transaction missing input")
	}
	txin := tx.Input[a.IssuanceTxin.Vin]

	status, err := v.chain.GetTxStatus(a.IssuanceTxin.Txid)
	if err != nil {
		return err
	}
	if status == nil {
		return fmt.Errorf("issuance transaction unconfirmed")
	}

	if !tx.Txid.Equal(a.IssuanceTxin.Txid) {
		return fmt.Errorf("issuance txid mismatch")
	}
	if !txin.HasIssuance {
		return fmt.Errorf("input has no issuance")
	}
	if txin.PreviousOutput != a.IssuancePrevout {
		return fmt.Errorf("issuance prevout mismatch")
	}

	ch, err := contract.ComputeHash(a.Contract)
	if err != nil {
		return err
	}
	chBytes := ch.Bytes()
	if !bytes.Equal(txin.AssetEntropy[:], chBytes[:]) {
		return fmt.Errorf("issuance entropy does not match contract hash")
	}

	// redundant sanity re-derivation of the id from the observed entropy
	entropy := assetid.Entropy(txin.PreviousOutput, ch)
	if !assetid.IdFromEntropy(entropy).Equal(a.AssetId) {
		return fmt.Errorf("asset id mismatch")
	}

	v.logger.Printf("verified on-chain issuance of asset %s, tx input %s:%d",
		a.AssetId, a.IssuanceTxin.Txid, a.IssuanceTxin.Vin)
	return nil
}
