// Copyright 2025 Certen Protocol
//
package contract

import "testing"

func TestValidateDomainName(t *testing.T) {
	cases := []struct {
		domain  string
		wantErr bool
	}{
		{"tether.to", false},
		{"xn--jxalpdlp.com", false},
		{"a.b.c.example.com", false},
		{"", true},
		{"localhost", true},
		{".foo.com", true},
		{"Foo.com", true},
		{"δοκιμή.com", true},
		{"x.9", true},
		{"9.com", false},
		{"foo.com.", false},
	}

	for _, c := range cases {
		err := ValidateDomainName(c.domain)
		if c.wantErr && err == nil {
			t.Errorf("ValidateDomainName(%q) = nil, want error", c.domain)
		}
		if !c.wantErr && err != nil {
			t.Errorf("ValidateDomainName(%q) = %v, want nil", c.domain, err)
		}
	}
}

func TestValidateDomainNameLabelAndLengthLimits(t *testing.T) {
	long := ""
	for i := 0; i < 130; i++ {
		long += "a."
	}
	long += "com"
	if err := ValidateDomainName(long); err == nil {
		t.Fatalf("expected too-many-labels domain to be rejected")
	}
}
