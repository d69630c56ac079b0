// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package auth is the credential store. Credentials are bcrypt hashes and
// stay opaque to the rest of the application; the core only ever asks
// "does this submitted secret match?".
package auth

import "golang.org/x/crypto/bcrypt"

// HashCredential derives the stored form of a secret.
func HashCredential(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyCredential reports whether the submitted secret matches the stored
// hash. An empty stored hash (the reserved SYSTEM identity) never matches
// anything, which is what keeps SYSTEM non-authenticatable.
func VerifyCredential(stored, submitted string) bool {
	if stored == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil
}
