// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package auth

import (
	"errors"
	"strings"
)

// ErrEmailDomainNotAllowed is returned when registration is restricted
// to a campus domain and the email is outside it.
var ErrEmailDomainNotAllowed = errors.New("email domain not allowed")

// CheckEmailDomain enforces the configured registration domain. An
// empty allowed domain admits every address.
func CheckEmailDomain(email, allowedDomain string) error {
	if allowedDomain == "" {
		return nil
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ErrEmailDomainNotAllowed
	}
	domain := strings.ToLower(email[at+1:])
	if domain != strings.ToLower(allowedDomain) {
		return ErrEmailDomainNotAllowed
	}
	return nil
}
