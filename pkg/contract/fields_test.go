// Copyright 2025 Certen Protocol
//
package contract

import (
	"encoding/json"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestParseStrictRejectsUnknownFields(t *testing.T) {
	raw := json.RawMessage(`{"version":0,"issuer_pubkey":"00","name":"x","entity":{"domain":"a.com"},"bogus":1}`)
	if _, err := ParseStrict(raw); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestParseStrictAcceptsMinimalFields(t *testing.T) {
	raw := json.RawMessage(`{"version":0,"issuer_pubkey":"00","name":"x","entity":{"domain":"a.com"}}`)
	f, err := ParseStrict(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Ticker != nil {
		t.Fatalf("expected nil ticker when omitted")
	}
	if f.Precision != 0 {
		t.Fatalf("expected default precision 0")
	}
}

func TestValidateSyntaxPrecisionBoundary(t *testing.T) {
	base := AssetFields{Name: "x", Entity: Entity{Domain: "a.com"}}

	base.Precision = 8
	if err := base.ValidateSyntax(); err != nil {
		t.Fatalf("precision 8 should be valid: %v", err)
	}

	base.Precision = 9
	if err := base.ValidateSyntax(); err == nil {
		t.Fatalf("precision 9 should be rejected")
	}
}

func TestValidateSyntaxTickerBoundary(t *testing.T) {
	base := AssetFields{Name: "x", Entity: Entity{Domain: "a.com"}}

	base.Ticker = strPtr("ABC")
	if err := base.ValidateSyntax(); err != nil {
		t.Fatalf("3-char ticker should be valid: %v", err)
	}

	base.Ticker = strPtr(strings.Repeat("A", 24))
	if err := base.ValidateSyntax(); err != nil {
		t.Fatalf("24-char ticker should be valid: %v", err)
	}

	base.Ticker = strPtr("AB")
	if err := base.ValidateSyntax(); err == nil {
		t.Fatalf("2-char ticker should be rejected")
	}

	base.Ticker = strPtr(strings.Repeat("A", 25))
	if err := base.ValidateSyntax(); err == nil {
		t.Fatalf("25-char ticker should be rejected")
	}

	base.Ticker = strPtr("AB_C")
	if err := base.ValidateSyntax(); err == nil {
		t.Fatalf("ticker with underscore should be rejected")
	}
}

func TestValidateSyntaxNameBoundary(t *testing.T) {
	base := AssetFields{Entity: Entity{Domain: "a.com"}}

	base.Name = ""
	if err := base.ValidateSyntax(); err == nil {
		t.Fatalf("empty name should be rejected")
	}

	base.Name = strings.Repeat("x", 255)
	if err := base.ValidateSyntax(); err != nil {
		t.Fatalf("255-char name should be valid: %v", err)
	}

	base.Name = strings.Repeat("x", 256)
	if err := base.ValidateSyntax(); err == nil {
		t.Fatalf("256-char name should be rejected")
	}

	base.Name = "café"
	if err := base.ValidateSyntax(); err == nil {
		t.Fatalf("non-ASCII name should be rejected")
	}
}

func TestValidateSyntaxDomainDelegation(t *testing.T) {
	f := AssetFields{Name: "x", Entity: Entity{Domain: "localhost"}}
	if err := f.ValidateSyntax(); err == nil {
		t.Fatalf("single-label domain should be rejected")
	}
}

func TestEqualComparesStructurally(t *testing.T) {
	a := AssetFields{Name: "x", Ticker: strPtr("ABC"), Entity: Entity{Domain: "a.com"}}
	b := AssetFields{Name: "x", Ticker: strPtr("ABC"), Entity: Entity{Domain: "a.com"}}
	if !a.Equal(b) {
		t.Fatalf("expected structurally identical fields to be equal")
	}
	b.Name = "y"
	if a.Equal(b) {
		t.Fatalf("expected differing fields to be unequal")
	}
}

func TestNamespaceKey(t *testing.T) {
	f := AssetFields{Ticker: strPtr("USDT"), Entity: Entity{Domain: "tether.to"}}
	if got, want := f.NamespaceKey(), "USDT@domain:tether.to"; got != want {
		t.Fatalf("NamespaceKey() = %q, want %q", got, want)
	}

	f.Ticker = nil
	if got := f.NamespaceKey(); got != "" {
		t.Fatalf("expected empty namespace key without a ticker, got %q", got)
	}
}
