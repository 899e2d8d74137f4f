// Copyright 2025 Certen Protocol
//
package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Domain name validation. The Unicode policy requires domains to
// already be Punycode-encoded rather than attempting IDNA transcoding.
var (
	reLabelSimple = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	reLabelHyphen = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$`)
)

// ValidateDomainName rejects empty, leading-dot, uppercase, non-ASCII,
// over-length, over-labeled, numeric-TLD, or single-label ("localhost")
// domain names.
func ValidateDomainName(domain string) error {
	if domain == "" {
		return fmt.Errorf("empty domain")
	}
	if strings.HasPrefix(domain, ".") {
		return fmt.Errorf("cannot start with a dot")
	}
	if !isASCII(domain) {
		return fmt.Errorf("should be provided in ASCII/Punycode form, not IDNA Unicode")
	}
	if strings.ToLower(domain) != domain {
		return fmt.Errorf("should be provided in lower-case")
	}
	if len(domain) > 255 {
		return fmt.Errorf("must be up to 255 characters")
	}

	labels := strings.Split(domain, ".")
	if strings.HasSuffix(domain, ".") {
		// strip the trailing empty label from a fully-qualified domain name
		labels = labels[:len(labels)-1]
	}
	if len(labels) > 127 {
		return fmt.Errorf("must not have more than 127 labels")
	}
	// prevents using "localhost"
	if len(labels) <= 1 {
		return fmt.Errorf("must have at least two labels")
	}

	for i, label := range labels {
		isTLD := i == len(labels)-1
		if label == "" {
			return fmt.Errorf("must only contain allowed characters")
		}
		if isTLD {
			if _, err := strconv.ParseFloat(label, 64); err == nil {
				return fmt.Errorf("the tld must not be a number")
			}
		}
		if !reLabelSimple.MatchString(label) && !reLabelHyphen.MatchString(label) {
			return fmt.Errorf("must only contain allowed characters")
		}
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
