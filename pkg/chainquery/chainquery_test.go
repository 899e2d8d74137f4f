// Copyright 2025 Certen Protocol
//
package chainquery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Blockstream/asset-registry/pkg/assetid"
	"github.com/Blockstream/asset-registry/pkg/chainquery/txtest"
)

func spawnMockEsploraServer(t *testing.T, txHex string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/tx/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/status"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"confirmed":    true,
				"block_height": 999,
				"block_hash":   "06ef1b8ac6cfacae9493e8d214d5ddd70322abe39bc0ab82727849b47bfb1fce",
				"block_time":   1556733700,
			})
		case strings.HasSuffix(r.URL.Path, "/hex"):
			w.Write([]byte(txHex))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	mux.HandleFunc("/asset/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"issuance_txin":    map[string]interface{}{"txid": "9b75a545ff42c403839b0be69c1047144dc3e778c0d937d85c71538f169eebb5", "vin": 0},
			"issuance_prevout": map[string]interface{}{"txid": "c1854811ffe022a023e42769a703d434a40cb3dc16407e1a47aa6279d6cd48b4", "vout": 2},
		})
	})

	return httptest.NewServer(mux)
}

func TestGetTxDecodesIssuance(t *testing.T) {
	prevoutTxid, err := assetid.TxidFromHex("c1854811ffe022a023e42769a703d434a40cb3dc16407e1a47aa6279d6cd48b4")
	if err != nil {
		t.Fatalf("parse prevout txid: %v", err)
	}
	prevout := assetid.OutPoint{Txid: prevoutTxid, Vout: 2}
	var entropy [32]byte
	entropy[0] = 0xaa
	entropy[31] = 0x01

	txHex, txid := txtest.BuildIssuanceTx(prevout, entropy)
	srv := spawnMockEsploraServer(t, txHex)
	defer srv.Close()

	cq := New(srv.URL)
	tx, err := cq.GetTx(txid)
	if err != nil {
		t.Fatalf("GetTx: %v", err)
	}
	if tx == nil {
		t.Fatalf("expected a decoded tx")
	}
	if !tx.Txid.Equal(txid) {
		t.Fatalf("decoded txid %s does not match serialized txid %s", tx.Txid, txid)
	}
	if len(tx.Input) != 1 {
		t.Fatalf("expected one input, got %d", len(tx.Input))
	}
	in := tx.Input[0]
	if !in.HasIssuance {
		t.Fatalf("expected the input to carry an issuance")
	}
	if in.PreviousOutput != prevout {
		t.Fatalf("decoded prevout %s does not match %s", in.PreviousOutput, prevout)
	}
	if in.AssetEntropy != entropy {
		t.Fatalf("decoded entropy %x does not match %x", in.AssetEntropy, entropy)
	}
}

func TestGetTxStatus(t *testing.T) {
	srv := spawnMockEsploraServer(t, "")
	defer srv.Close()

	cq := New(srv.URL)
	txid, err := assetid.TxidFromHex("9b75a545ff42c403839b0be69c1047144dc3e778c0d937d85c71538f169eebb5")
	if err != nil {
		t.Fatalf("parse txid: %v", err)
	}

	status, err := cq.GetTxStatus(txid)
	if err != nil {
		t.Fatalf("GetTxStatus: %v", err)
	}
	if status == nil || status.BlockHeight != 999 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestGetTxNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cq := New(srv.URL)
	txid, _ := assetid.TxidFromHex("9b75a545ff42c403839b0be69c1047144dc3e778c0d937d85c71538f169eebb5")

	tx, err := cq.GetTx(txid)
	if err != nil {
		t.Fatalf("expected nil error on 404, got %v", err)
	}
	if tx != nil {
		t.Fatalf("expected nil tx on 404")
	}
}

func TestGetTxRejectsMalformedHex(t *testing.T) {
	srv := spawnMockEsploraServer(t, "this is not hex")
	defer srv.Close()

	cq := New(srv.URL)
	txid, _ := assetid.TxidFromHex("9b75a545ff42c403839b0be69c1047144dc3e778c0d937d85c71538f169eebb5")

	if _, err := cq.GetTx(txid); err == nil {
		t.Fatalf("expected malformed hex to be rejected")
	}
}

func TestGetTxRejectsTruncatedTx(t *testing.T) {
	prevoutTxid, _ := assetid.TxidFromHex("c1854811ffe022a023e42769a703d434a40cb3dc16407e1a47aa6279d6cd48b4")
	txHex, txid := txtest.BuildIssuanceTx(assetid.OutPoint{Txid: prevoutTxid, Vout: 2}, [32]byte{})

	srv := spawnMockEsploraServer(t, txHex[:40])
	defer srv.Close()

	cq := New(srv.URL)
	if _, err := cq.GetTx(txid); err == nil {
		t.Fatalf("expected truncated tx to be rejected")
	}
}

func TestDecodeTxRejectsTrailingData(t *testing.T) {
	prevoutTxid, _ := assetid.TxidFromHex("c1854811ffe022a023e42769a703d434a40cb3dc16407e1a47aa6279d6cd48b4")
	txHex, txid := txtest.BuildIssuanceTx(assetid.OutPoint{Txid: prevoutTxid, Vout: 2}, [32]byte{})

	srv := spawnMockEsploraServer(t, txHex+"00")
	defer srv.Close()

	cq := New(srv.URL)
	if _, err := cq.GetTx(txid); err == nil {
		t.Fatalf("expected trailing data to be rejected")
	}
}

func TestGetAsset(t *testing.T) {
	srv := spawnMockEsploraServer(t, "")
	defer srv.Close()

	cq := New(srv.URL)
	id, err := assetid.AssetIdFromHex("b1405e4eefa91c6690198b4f85d73e8e0babee08f73b2c8af411486dc28dbc05")
	if err != nil {
		t.Fatalf("parse asset id: %v", err)
	}

	raw, err := cq.GetAsset(id)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal asset: %v", err)
	}
	if _, ok := parsed["issuance_txin"]; !ok {
		t.Fatalf("expected issuance_txin field in response")
	}
}
