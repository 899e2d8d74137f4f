// Copyright 2025 Certen Protocol
//
// Package registryclient is a thin HTTP client for the registry's HTTP
// Boundary, used by cmd/registryctl and by tests exercising the
// server end-to-end.
package registryclient

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/Blockstream/asset-registry/pkg/assetid"
	"github.com/Blockstream/asset-registry/pkg/contract"
	"github.com/Blockstream/asset-registry/pkg/validator"
)

// Client talks to a running registry server.
type Client struct {
	client      *resty.Client
	registryURL string
}

// New constructs a Client against the given registry base URL.
func New(registryURL string) *Client {
	return &Client{
		client:      resty.New(),
		registryURL: strings.TrimRight(registryURL, "/"),
	}
}

// AssetRequest mirrors the HTTP Boundary's POST / body.
type AssetRequest struct {
	AssetId                  assetid.AssetId                   `json:"asset_id"`
	Contract                 json.RawMessage                   `json:"contract"`
	DomainVerificationMethod contract.DomainVerificationMethod `json:"domain_verification_method,omitempty"`
}

// Get fetches an asset record by id. A 404 yields (nil, nil).
func (c *Client) Get(id assetid.AssetId) (*validator.Asset, error) {
	resp, err := c.client.R().Get(fmt.Sprintf("%s/%s", c.registryURL, id))
	if err != nil {
		return nil, fmt.Errorf("failed fetching asset from registry: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed fetching asset from registry: %s", resp.Status())
	}

	var a validator.Asset
	if err := json.Unmarshal(resp.Body(), &a); err != nil {
		return nil, fmt.Errorf("failed deserializing asset from registry: %w", err)
	}
	return &a, nil
}

// Register submits a new asset request for registration.
func (c *Client) Register(req AssetRequest) (*validator.Asset, error) {
	resp, err := c.client.R().SetBody(req).Post(c.registryURL + "/")
	if err != nil {
		return nil, fmt.Errorf("failed sending asset to registry: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed sending asset to registry: %s: %s", resp.Status(), resp.String())
	}

	var a validator.Asset
	if err := json.Unmarshal(resp.Body(), &a); err != nil {
		return nil, fmt.Errorf("failed deserializing registered asset: %w", err)
	}
	return &a, nil
}

// Delete requests removal of an asset, authorized by a signature over
// the fixed deletion message schema.
func (c *Client) Delete(id assetid.AssetId, signature []byte) error {
	body := map[string]string{"signature": base64.StdEncoding.EncodeToString(signature)}
	resp, err := c.client.R().SetBody(body).Delete(fmt.Sprintf("%s/%s", c.registryURL, id))
	if err != nil {
		return fmt.Errorf("failed deleting asset from registry: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed deleting asset from registry: %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// ValidateContract asks the registry to check a contract's syntax and
// hash without persisting anything.
func (c *Client) ValidateContract(contractJSON json.RawMessage, contractHash assetid.ContractHash) error {
	body := map[string]interface{}{
		"contract":      json.RawMessage(contractJSON),
		"contract_hash": contractHash.String(),
	}
	resp, err := c.client.R().SetBody(body).Post(c.registryURL + "/contract/validate")
	if err != nil {
		return fmt.Errorf("failed validating contract: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed validating contract: %s: %s", resp.Status(), resp.String())
	}
	return nil
}
