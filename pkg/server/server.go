// Copyright 2025 Certen Protocol
//
// Package server implements the registry's HTTP Boundary: a thin
// dispatcher exposing register / fetch / delete / validate-contract
// operations over manually-routed net/http handlers, each owning its
// own *log.Logger, in place of a router framework.
package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Blockstream/asset-registry/pkg/assetid"
	"github.com/Blockstream/asset-registry/pkg/chainquery"
	"github.com/Blockstream/asset-registry/pkg/contract"
	"github.com/Blockstream/asset-registry/pkg/metrics"
	"github.com/Blockstream/asset-registry/pkg/registry"
	"github.com/Blockstream/asset-registry/pkg/validator"
)

// Handlers provides the HTTP handlers for the registry boundary.
type Handlers struct {
	registry *registry.Registry
	chain    chainquery.ChainQuery
	validate *validator.Validator
	logger   *log.Logger
}

// NewHandlers constructs the registry's HTTP handlers. validateOnly is
// a Validator configured without on-chain checks, used for
// POST /contract/validate (which only exercises field syntax and the
// declared contract hash, not on-chain issuance or the entity link).
func NewHandlers(reg *registry.Registry, chain chainquery.ChainQuery, validateOnly *validator.Validator, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[server] ", log.LstdFlags)
	}
	return &Handlers{registry: reg, chain: chain, validate: validateOnly, logger: logger}
}

// Mux builds the registry's net/http routing table.
func (h *Handlers) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/contract/validate", h.handleValidateContract)
	mux.HandleFunc("/", h.handleAsset)
	return mux
}

func (h *Handlers) handleAsset(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/")

	switch r.Method {
	case http.MethodGet:
		if id == "" {
			writeJSONError(w, "asset id required", http.StatusBadRequest)
			return
		}
		h.handleGet(w, r, id)
	case http.MethodPost:
		if id != "" {
			writeJSONError(w, "not found", http.StatusNotFound)
			return
		}
		h.handleRegister(w, r)
	case http.MethodDelete:
		if id == "" {
			writeJSONError(w, "asset id required", http.StatusBadRequest)
			return
		}
		h.handleDelete(w, r, id)
	default:
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request, idHex string) {
	id, err := assetid.AssetIdFromHex(idHex)
	if err != nil {
		writeJSONError(w, "invalid asset id: "+err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.registry.Load(id)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if asset == nil {
		writeJSONError(w, "asset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

// assetRequest is the POST / registration request body: a client
// supplies the asset id and contract, and the server fills in the
// issuance data from the chain indexer.
type assetRequest struct {
	AssetId                  assetid.AssetId                   `json:"asset_id"`
	Contract                 json.RawMessage                   `json:"contract"`
	DomainVerificationMethod contract.DomainVerificationMethod `json:"domain_verification_method,omitempty"`
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.New()

	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rawAsset, err := h.chain.GetAsset(req.AssetId)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rawAsset == nil {
		writeJSONError(w, "asset id not found", http.StatusBadRequest)
		return
	}

	var indexed struct {
		IssuanceTxin    assetid.TxInput  `json:"issuance_txin"`
		IssuancePrevout assetid.OutPoint `json:"issuance_prevout"`
	}
	if err := json.Unmarshal(rawAsset, &indexed); err != nil {
		writeJSONError(w, "failed reading indexer asset view: "+err.Error(), http.StatusBadRequest)
		return
	}

	fields, err := contract.ParseStrict(req.Contract)
	if err != nil {
		writeJSONError(w, "invalid contract fields: "+err.Error(), http.StatusBadRequest)
		return
	}

	asset := &validator.Asset{
		AssetId:                  req.AssetId,
		Contract:                 req.Contract,
		IssuanceTxin:             indexed.IssuanceTxin,
		IssuancePrevout:          indexed.IssuancePrevout,
		Fields:                   fields,
		DomainVerificationMethod: req.DomainVerificationMethod,
	}

	h.logger.Printf("[%s] registering asset %s", reqID, asset.AssetId)

	if err := h.registry.Write(asset); err != nil {
		metrics.RegisterRequests.WithLabelValues("rejected").Inc()
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.RegisterRequests.WithLabelValues("accepted").Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

type deleteRequest struct {
	Signature string `json:"signature"`
}

func (h *Handlers) handleDelete(w http.ResponseWriter, r *http.Request, idHex string) {
	reqID := uuid.New()

	id, err := assetid.AssetIdFromHex(idHex)
	if err != nil {
		writeJSONError(w, "invalid asset id: "+err.Error(), http.StatusBadRequest)
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		writeJSONError(w, "invalid signature base64: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Printf("[%s] deleting asset %s", reqID, id)

	if err := h.registry.Delete(id, signature); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			metrics.DeleteRequests.WithLabelValues("not_found").Inc()
			writeJSONError(w, "asset not found", http.StatusNotFound)
			return
		}
		metrics.DeleteRequests.WithLabelValues("rejected").Inc()
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.DeleteRequests.WithLabelValues("accepted").Inc()

	w.Write([]byte("Asset deleted"))
}

type validateContractRequest struct {
	Contract     json.RawMessage `json:"contract"`
	ContractHash string          `json:"contract_hash"`
}

func (h *Handlers) handleValidateContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req validateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	fields, err := contract.ParseStrict(req.Contract)
	if err != nil {
		writeJSONError(w, "invalid contract fields: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.ValidateFieldSyntax(fields); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	expected, err := contract.ComputeHash(req.Contract)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	declared, err := assetid.ContractHashFromHex(req.ContractHash)
	if err != nil {
		writeJSONError(w, "invalid contract_hash: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !declared.Equal(expected) {
		writeJSONError(w, "contract hash mismatch, expected "+expected.String(), http.StatusBadRequest)
		return
	}

	metrics.ContractValidations.Inc()
	w.Write([]byte("valid"))
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
