// Copyright 2025 Certen Protocol
//
// Package chainquery abstracts the external blockchain indexer (an
// esplora-style REST API) that the Asset Validator and HTTP Boundary
// pull on-chain issuance data from.
package chainquery

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/Blockstream/asset-registry/pkg/assetid"
)

// BlockId describes the confirmation state of a transaction.
type BlockId struct {
	BlockHeight uint64 `json:"block_height"`
	BlockHash   string `json:"block_hash"`
	BlockTime   uint32 `json:"block_time"`
}

// ChainQuery resolves transactions, confirmation status, and
// indexer-maintained asset metadata against an esplora-style base URL.
// Operations are synchronous, idempotent, and hold no caching state.
type ChainQuery interface {
	GetTx(txid assetid.Txid) (*Tx, error)
	GetTxStatus(txid assetid.Txid) (*BlockId, error)
	GetAsset(id assetid.AssetId) (json.RawMessage, error)
}

// Tx is the subset of on-chain transaction data the validator needs:
// its own id plus the inputs, each of which may carry an issuance.
type Tx struct {
	Txid  assetid.Txid
	Input []TxIn
}

// TxIn is one transaction input, decoded as far as the validator
// needs: the issuance flag, the prevout, and the issuance's asset
// entropy field.
type TxIn struct {
	PreviousOutput assetid.OutPoint
	HasIssuance    bool
	AssetEntropy   [32]byte
}

// HTTPChainQuery is the esplora-backed ChainQuery implementation.
type HTTPChainQuery struct {
	client *resty.Client
}

// New constructs a ChainQuery against the given esplora-style base URL.
func New(apiURL string) *HTTPChainQuery {
	return &HTTPChainQuery{
		client: resty.New().SetBaseURL(strings.TrimRight(apiURL, "/")),
	}
}

// GetTx fetches a transaction's consensus hex by txid and decodes it.
// A 404 response yields (nil, nil); any other non-2xx status, malformed
// hex, or decode failure is returned as an error.
func (c *HTTPChainQuery) GetTx(txid assetid.Txid) (*Tx, error) {
	resp, err := c.client.R().Get(fmt.Sprintf("/tx/%s/hex", txid))
	if err != nil {
		return nil, fmt.Errorf("failed fetching tx: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed fetching tx: indexer returned %s", resp.Status())
	}

	raw, err := hex.DecodeString(strings.TrimSpace(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("failed reading tx: %w", err)
	}
	tx, err := decodeTx(raw)
	if err != nil {
		return nil, fmt.Errorf("failed reading tx: %w", err)
	}
	return tx, nil
}

// GetTxStatus fetches a transaction's confirmation status. An
// unconfirmed transaction yields (nil, nil).
func (c *HTTPChainQuery) GetTxStatus(txid assetid.Txid) (*BlockId, error) {
	resp, err := c.client.R().Get(fmt.Sprintf("/tx/%s/status", txid))
	if err != nil {
		return nil, fmt.Errorf("failed fetching tx status: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed fetching tx status: indexer returned %s", resp.Status())
	}

	var status struct {
		Confirmed   bool   `json:"confirmed"`
		BlockHeight uint64 `json:"block_height"`
		BlockHash   string `json:"block_hash"`
		BlockTime   uint32 `json:"block_time"`
	}
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return nil, fmt.Errorf("failed reading tx status: %w", err)
	}
	if !status.Confirmed {
		return nil, nil
	}
	return &BlockId{
		BlockHeight: status.BlockHeight,
		BlockHash:   status.BlockHash,
		BlockTime:   status.BlockTime,
	}, nil
}

// GetAsset fetches the indexer's view of an asset, including the
// issuance_txin/issuance_prevout fields the HTTP Boundary uses to
// complete server-side registration requests. A 404 yields (nil, nil).
func (c *HTTPChainQuery) GetAsset(id assetid.AssetId) (json.RawMessage, error) {
	resp, err := c.client.R().Get(fmt.Sprintf("/asset/%s", id))
	if err != nil {
		return nil, fmt.Errorf("failed fetching asset: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed fetching asset: indexer returned %s", resp.Status())
	}
	return json.RawMessage(resp.Body()), nil
}
