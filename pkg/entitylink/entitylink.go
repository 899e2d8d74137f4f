// Copyright 2025 Certen Protocol
//
// Package entitylink verifies that the controller of an external
// entity (currently only a domain name) authorized an asset's binding
// to it, via either an HTTP-served well-known file or a DNS TXT record.
package entitylink

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/Blockstream/asset-registry/pkg/contract"
)

// Verifier proves a domain-to-asset binding.
type Verifier struct {
	client  *resty.Client
	devMode bool
}

// New constructs a Verifier. When devMode is true, the HTTP method
// bypasses TLS and the target domain entirely, hitting a fixed loopback
// verifier instead. devMode is an ordinary runtime argument (set from
// configuration or a CLI flag), not a build-time switch, and it does not
// change the DNS method.
func New(devMode bool) *Verifier {
	return &Verifier{client: resty.New(), devMode: devMode}
}

const devVerifierBaseURL = "http://127.0.0.1:58712"

// VerifyDomainLink checks the domain/asset binding using the given
// method: "dns" selects the TXT check, and any other value (including
// an empty one) selects the HTTP well-known check.
func (v *Verifier) VerifyDomainLink(domain, assetIDHex, ticker string, method contract.DomainVerificationMethod) error {
	if err := contract.ValidateDomainName(domain); err != nil {
		return fmt.Errorf("invalid domain name: %w", err)
	}

	switch method.Normalize() {
	case contract.DomainVerificationDNS:
		return v.verifyDNS(domain, assetIDHex, ticker)
	default:
		return v.verifyHTTP(domain, assetIDHex)
	}
}

func (v *Verifier) verifyHTTP(domain, assetIDHex string) error {
	expectedBody := fmt.Sprintf("Authorize linking the domain name %s to the Liquid asset %s", domain, assetIDHex)

	var pageURL string
	if v.devMode {
		pageURL = fmt.Sprintf("%s/.well-known/liquid-asset-proof-%s", devVerifierBaseURL, assetIDHex)
	} else {
		scheme := "https"
		if strings.HasSuffix(domain, ".onion") {
			scheme = "http"
		}
		pageURL = fmt.Sprintf("%s://%s/.well-known/liquid-asset-proof-%s", scheme, domain, assetIDHex)
	}

	resp, err := v.client.R().Get(pageURL)
	if err != nil {
		return fmt.Errorf("failed fetching %s: %w", pageURL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed fetching %s: server returned %s", pageURL, resp.Status())
	}

	body := strings.TrimRight(resp.String(), " \t\r\n")
	if body != expectedBody {
		return fmt.Errorf("verification page contents mismatch")
	}
	return nil
}

// verifyDNS looks up a TXT record on the domain's apex (its last two
// labels) and requires one record to equal exactly
// "liquid-asset-verification={asset_id_hex},{ticker_or_empty}".
func (v *Verifier) verifyDNS(domain, assetIDHex, ticker string) error {
	apex := apexDomain(domain)
	records, err := net.LookupTXT(apex)
	if err != nil {
		return fmt.Errorf("failed looking up TXT records for %s: %w", apex, err)
	}

	expected := fmt.Sprintf("liquid-asset-verification=%s,%s", assetIDHex, ticker)
	for _, rec := range records {
		if rec == expected {
			return nil
		}
	}
	return fmt.Errorf("no matching TXT record found at %s", apex)
}

func apexDomain(domain string) string {
	labels := strings.Split(strings.TrimSuffix(domain, "."), ".")
	if len(labels) <= 2 {
		return strings.Join(labels, ".")
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
