// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves the caller of a request to an address.

# Request Signatures

Callers sign the request with a secp256k1 key, the same kind of key an
Ethereum wallet holds. The signed payload is

	"<METHOD> <PATH>\n<BODY>"

hashed with the EIP-191 text prefix (what personal_sign produces). The
signature travels in the X-Caller-Signature header as 0x-prefixed hex:

	sig, err := auth.SignRequest(key, "POST", "/votes", body)
	addr, err := auth.RecoverCaller("POST", "/votes", body, sig)

An optional X-Caller-Address header is checked against the recovered
address by VerifyCaller.

# Replays

Signatures carry no nonce. Replaying a signed request is harmless because
every state change it can trigger is one-shot: a second registration or a
second vote is rejected, and closing registration again changes nothing.

# Keys

	privHex, addr, err := auth.GenerateKey()
	key, err := auth.LoadKey(privHex)
*/
package auth
