// Package store persists the permanent key pair on disk.
//
// The secret key is encrypted with a key derived from a passphrase via
// scrypt and sealed with ChaCha20-Poly1305. Writes go through a temp file
// and an atomic rename so a crash can never leave a half-written key file.
package store
