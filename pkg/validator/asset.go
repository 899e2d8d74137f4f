// Copyright 2025 Certen Protocol
//
// Package validator implements the Asset Validator pipeline: the
// contract-bearing core that checks field syntax, the asset-id
// commitment, fields/contract consistency, on-chain issuance, and the
// entity link, in that order, first failure wins.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Blockstream/asset-registry/pkg/assetid"
	"github.com/Blockstream/asset-registry/pkg/chainquery"
	"github.com/Blockstream/asset-registry/pkg/contract"
	"github.com/Blockstream/asset-registry/pkg/entitylink"
)

// ErrUpdatesDisabled is returned when a record carries a signature,
// which would indicate a fields update - a path the registry never
// enabled.
var ErrUpdatesDisabled = errors.New("updates are disabled")

// Asset is a fully-formed record: the commitment triple (asset id,
// contract, issuance data) plus the issuer-chosen fields flattened
// alongside them, exactly as persisted by the Registry Engine.
type Asset struct {
	AssetId                  assetid.AssetId
	Contract                 json.RawMessage
	IssuanceTxin             assetid.TxInput
	IssuancePrevout          assetid.OutPoint
	Fields                   contract.AssetFields
	Signature                *string
	DomainVerificationMethod contract.DomainVerificationMethod
}

// MarshalJSON flattens Fields alongside the record's own keys, so the
// persisted JSON carries the issuer-chosen fields at the top level
// rather than nested under a "fields" key.
func (a Asset) MarshalJSON() ([]byte, error) {
	type alias struct {
		AssetId                  assetid.AssetId                   `json:"asset_id"`
		Contract                 json.RawMessage                   `json:"contract"`
		IssuanceTxin             assetid.TxInput                   `json:"issuance_txin"`
		IssuancePrevout          assetid.OutPoint                  `json:"issuance_prevout"`
		Signature                *string                           `json:"signature,omitempty"`
		DomainVerificationMethod contract.DomainVerificationMethod `json:"domain_verification_method,omitempty"`
	}
	base, err := json.Marshal(alias{
		AssetId:                  a.AssetId,
		Contract:                 a.Contract,
		IssuanceTxin:             a.IssuanceTxin,
		IssuancePrevout:          a.IssuancePrevout,
		Signature:                a.Signature,
		DomainVerificationMethod: a.DomainVerificationMethod,
	})
	if err != nil {
		return nil, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}

	fieldsJSON, err := json.Marshal(a.Fields)
	if err != nil {
		return nil, err
	}
	var fieldsMap map[string]json.RawMessage
	if err := json.Unmarshal(fieldsJSON, &fieldsMap); err != nil {
		return nil, err
	}
	for k, v := range fieldsMap {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON inflates both the record's own keys and the flattened
// AssetFields keys from the same JSON object.
func (a *Asset) UnmarshalJSON(b []byte) error {
	type alias struct {
		AssetId                  assetid.AssetId                   `json:"asset_id"`
		Contract                 json.RawMessage                   `json:"contract"`
		IssuanceTxin             assetid.TxInput                   `json:"issuance_txin"`
		IssuancePrevout          assetid.OutPoint                  `json:"issuance_prevout"`
		Signature                *string                           `json:"signature,omitempty"`
		DomainVerificationMethod contract.DomainVerificationMethod `json:"domain_verification_method,omitempty"`
	}
	var al alias
	if err := json.Unmarshal(b, &al); err != nil {
		return err
	}

	// The record's own keys live alongside the flattened AssetFields
	// keys; strip them before the strict fields parse so that only a
	// genuinely unrecognized key is rejected.
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	for _, k := range []string{
		"asset_id", "contract", "issuance_txin", "issuance_prevout",
		"signature", "domain_verification_method",
	} {
		delete(flat, k)
	}
	fieldsJSON, err := json.Marshal(flat)
	if err != nil {
		return err
	}
	fields, err := contract.ParseStrict(fieldsJSON)
	if err != nil {
		return fmt.Errorf("invalid asset record fields: %w", err)
	}

	a.AssetId = al.AssetId
	a.Contract = al.Contract
	a.IssuanceTxin = al.IssuanceTxin
	a.IssuancePrevout = al.IssuancePrevout
	a.Signature = al.Signature
	a.DomainVerificationMethod = al.DomainVerificationMethod
	a.Fields = fields
	return nil
}

// Validator runs the full verification pipeline against an Asset.
type Validator struct {
	chain  chainquery.ChainQuery
	linker *entitylink.Verifier
	logger *log.Logger
}

// New constructs a Validator. chain may be nil, in which case the
// on-chain issuance check (step 4) is skipped - used by
// POST /contract/validate, which only calls ValidateFieldSyntax (step 1)
// and compares the declared contract hash itself.
func New(chain chainquery.ChainQuery, linker *entitylink.Verifier, logger *log.Logger) *Validator {
	if logger == nil {
		logger = log.New(log.Writer(), "[validator] ", log.LstdFlags)
	}
	return &Validator{chain: chain, linker: linker, logger: logger}
}

// ValidateFieldSyntax is the pipeline's first stage in isolation: field
// syntax (name/ticker/collection bounds, precision, domain shape) plus
// the issuer pubkey's ability to parse as a compressed secp256k1 public
// key. It is
// exposed separately from Verify so callers that only have a contract
// document - not a full on-chain-bound asset record - can still run the
// same checks, e.g. the HTTP boundary's standalone contract validation.
func (v *Validator) ValidateFieldSyntax(f contract.AssetFields) error {
	if err := f.ValidateSyntax(); err != nil {
		return fmt.Errorf("invalid asset fields: %w", err)
	}
	if _, err := sigmsgPubkey(f.IssuerPubkey); err != nil {
		return fmt.Errorf("invalid asset fields: %w", err)
	}
	return nil
}

// Verify runs the pipeline in full: field syntax, asset-id commitment,
// fields/contract consistency, on-chain issuance (if a ChainQuery was
// configured), and the entity link. First failure wins.
func (v *Validator) Verify(a *Asset) error {
	if err := v.ValidateFieldSyntax(a.Fields); err != nil {
		return err
	}

	if err := v.verifyCommitment(a); err != nil {
		return fmt.Errorf("failed verifying issuance commitment: %w", err)
	}

	if err := v.verifyFields(a); err != nil {
		return fmt.Errorf("failed verifying asset fields: %w", err)
	}

	if v.chain != nil {
		if err := v.verifyIssuanceTx(a); err != nil {
			return fmt.Errorf("failed verifying on-chain issuance: %w", err)
		}
	}

	if err := v.verifyLink(a); err != nil {
		return fmt.Errorf("failed verifying linked entity: %w", err)
	}

	v.logger.Printf("finished verification for asset %s", a.AssetId)
	return nil
}

// VerifyDeletion checks a deletion signature against the asset's
// declared issuer pubkey and the fixed deletion message schema.
func (v *Validator) VerifyDeletion(a *Asset, signature []byte) error {
	return verifyDeletionSig(a, signature)
}

func (v *Validator) verifyCommitment(a *Asset) error {
	ch, err := contract.ComputeHash(a.Contract)
	if err != nil {
		return err
	}
	derived := assetid.DeriveAssetId(a.IssuancePrevout, ch)
	if !derived.Equal(a.AssetId) {
		return fmt.Errorf("invalid asset commitment")
	}
	v.logger.Printf("verified asset commitment, asset id %s commits to prevout %s and contract hash %s",
		derived, a.IssuancePrevout, ch)
	return nil
}

func (v *Validator) verifyFields(a *Asset) error {
	if a.Signature != nil {
		return ErrUpdatesDisabled
	}
	fromContract, err := contract.ParseStrict(a.Contract)
	if err != nil {
		return fmt.Errorf("invalid contract fields: %w", err)
	}
	if !a.Fields.Equal(fromContract) {
		return fmt.Errorf("fields mismatch commitment")
	}
	return nil
}

func (v *Validator) verifyLink(a *Asset) error {
	ticker := ""
	if a.Fields.Ticker != nil {
		ticker = *a.Fields.Ticker
	}
	return v.linker.VerifyDomainLink(a.Fields.Entity.Domain, a.AssetId.String(), ticker, a.DomainVerificationMethod)
}
