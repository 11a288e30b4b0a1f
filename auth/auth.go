// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Request headers carrying the caller's credentials
const (
	SignatureHeader = "X-Caller-Signature"
	AddressHeader   = "X-Caller-Address"
)

// SignatureLength is the size of a recoverable secp256k1 signature (R || S || V)
const SignatureLength = 65

var (
	ErrMissingSignature = errors.New("missing caller signature")
	ErrInvalidSignature = errors.New("invalid caller signature")
	ErrAddressMismatch  = errors.New("caller address does not match signature")
	ErrInvalidAddress   = errors.New("invalid address")
)

// Payload is the exact byte string a caller signs for a request
func Payload(method, path string, body []byte) []byte {
	p := make([]byte, 0, len(method)+len(path)+len(body)+2)
	p = append(p, strings.ToUpper(method)...)
	p = append(p, ' ')
	p = append(p, path...)
	p = append(p, '\n')
	p = append(p, body...)
	return p
}

// SignRequest signs a request payload with EIP-191 personal_sign semantics
// and returns the 0x-prefixed hex signature
func SignRequest(key *ecdsa.PrivateKey, method, path string, body []byte) (string, error) {
	sig, err := ethcrypto.Sign(accounts.TextHash(Payload(method, path, body)), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	return hexutil.Encode(sig), nil
}

// RecoverCaller returns the address that produced sigHex over the request.
// Wallet signatures with V in {27, 28} are accepted as well as {0, 1}.
func RecoverCaller(method, path string, body []byte, sigHex string) (common.Address, error) {
	if sigHex == "" {
		return common.Address{}, ErrMissingSignature
	}

	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureLength, len(sig))
	}
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := ethcrypto.SigToPub(accounts.TextHash(Payload(method, path, body)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// VerifyCaller recovers the caller and, when claimed is not empty, checks
// that it names the same address
func VerifyCaller(method, path string, body []byte, sigHex, claimed string) (common.Address, error) {
	addr, err := RecoverCaller(method, path, body, sigHex)
	if err != nil {
		return common.Address{}, err
	}
	if claimed == "" {
		return addr, nil
	}

	want, err := ParseAddress(claimed)
	if err != nil {
		return common.Address{}, err
	}
	if want != addr {
		return common.Address{}, fmt.Errorf("%w: claimed %s, signed by %s", ErrAddressMismatch, want.Hex(), addr.Hex())
	}
	return addr, nil
}

// ParseAddress validates a 0x-prefixed 20-byte hex address
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// GenerateKey creates a new secp256k1 key and returns it as hex with its address
func GenerateKey() (privHex string, addr common.Address, err error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return "", common.Address{}, fmt.Errorf("failed to generate key: %w", err)
	}
	return hexutil.Encode(ethcrypto.FromECDSA(key)), ethcrypto.PubkeyToAddress(key.PublicKey), nil
}

// LoadKey parses a hex private key, with or without 0x prefix
func LoadKey(privHex string) (*ecdsa.PrivateKey, error) {
	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(privHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
