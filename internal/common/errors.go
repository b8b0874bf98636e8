// Package common defines shared helpers and sentinel errors used across
// vaultrecovery layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrSchema     = errors.New("required table is missing")

	// Configuration errors: reported before any cryptography is attempted.
	ErrNoCredentials = errors.New("neither password nor passfile given")
	ErrMalformed     = errors.New("malformed record")

	// Authentication failures, reported per user or per vault.
	ErrPrivateKeyNotDecryptable = errors.New("private key not decryptable")
	ErrNoRight                  = errors.New("user has no right on vault")
	ErrMasterKeyUnwrap          = errors.New("master key not decryptable")
)
