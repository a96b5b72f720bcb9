// Package keystore owns the local permanent NaCl key pair and exposes the
// seal/open capability the signaling protocol builds on.
//
// The rest of the code base never inspects key bytes or algorithm choice; it
// hands the keystore a plaintext (or ciphertext), a nonce and a counterparty
// public key and gets the boxed (or opened) bytes back.
package keystore
