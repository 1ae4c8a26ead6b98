package domain

import (
	"fmt"
	"strings"
)

// NormalizeVersion canonicalizes a user-supplied version ("18" -> "18.0").
// Already-canonical input passes through unchanged; no numeric validation
// is performed.
func NormalizeVersion(version string) string {
	if !strings.HasSuffix(version, ".0") {
		return version + ".0"
	}
	return version
}

// ShortVersion derives the form used in download URLs by removing every
// ".0" substring ("18.0" -> "18"). The remote URL scheme expects exactly
// this removal, not a semantic parse.
func ShortVersion(version string) string {
	return strings.ReplaceAll(version, ".0", "")
}

func InstanceName(version string, edition Edition) string {
	return fmt.Sprintf("odoo-%s-%s", version, edition)
}
