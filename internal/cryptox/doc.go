// Package cryptox implements the primitives shared with the browser client
// that produced the vault ciphertext.
//
// Everything here must stay bit-compatible with Web Crypto:
//   - AES-256-GCM, 96-bit IV, 128-bit tag appended to the ciphertext;
//   - PBKDF2 with HMAC-SHA512 producing a 256-bit key;
//   - RSA-OAEP with SHA-512 for both the label hash and MGF1;
//   - standard base64 on the wire.
//
// Field and file plaintexts are additionally prefixed with HashPrefix of the
// payload, checked by SymDecrypt when hashPrefix is set.
package cryptox
