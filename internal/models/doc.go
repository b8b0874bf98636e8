// Package models defines the typed records read from the vault database or
// from an exported snapshot, and the decrypted trees produced from them.
//
// Encrypted records keep the wire representation of the browser client:
// salts, IVs and ciphertexts are base64 strings. Decoding happens in the
// accessors so a malformed value is reported against the record that holds it.
package models
