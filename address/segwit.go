package address

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/tapkit/fn"
	"github.com/lightninglabs/tapkit/script"
)

// encodeSegwit encodes a witness program under the network's bech32 prefix.
// Version 0 programs use bech32, all others bech32m.
func encodeSegwit(net Network, version byte, program []byte) (string, error) {
	converted, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}

	data := append([]byte{version}, converted...)
	hrp := net.Params().Bech32HRPSegwit
	if version == 0 {
		return bech32.Encode(hrp, data)
	}

	return bech32.EncodeM(hrp, data)
}

// decodeSegwit decodes a segwit address for the network, requiring the given
// witness version and its matching checksum variant.
func decodeSegwit(addr string, net Network, version byte) ([]byte, error) {
	hrp, data, variant, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	if want := net.Params().Bech32HRPSegwit; hrp != want {
		return nil, fmt.Errorf("%w: prefix %s, want %s", ErrWrongNetwork,
			hrp, want)
	}

	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidEncoding)
	}

	wantVariant := bech32.Version0
	if version != 0 {
		wantVariant = bech32.VersionM
	}
	if data[0] != version || variant != wantVariant {
		return nil, fmt.Errorf("%w: got %d", ErrWitnessVersion, data[0])
	}

	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	return program, nil
}

// hasAnyPrefix returns true if s starts with one of the prefixes.
func hasAnyPrefix(s string, prefixes ...string) bool {
	return fn.Any(prefixes, func(prefix string) bool {
		return strings.HasPrefix(s, prefix)
	})
}

// P2W is the codec of segwit version 0 addresses.
type P2W struct{}

// Check returns true if the address carries a segwit version 0 prefix. The
// checksum is not validated.
func (P2W) Check(addr string) bool {
	return hasAnyPrefix(addr, "bc1q", "tb1q", "bcrt1q")
}

// Encode hashes the key and encodes the hash as a version 0 witness program.
// A 20-byte key is hashed with HASH160 and a 32-byte key with SHA-256.
func (P2W) Encode(key []byte, net Network) (string, error) {
	var program []byte
	switch len(key) {
	case 20:
		program = btcutil.Hash160(key)

	case 32:
		program = chainhash.HashB(key)

	default:
		return "", fmt.Errorf("%w: p2w key must be 20 or 32 bytes, "+
			"got %d", ErrKeySize, len(key))
	}

	return encodeSegwit(net, 0, program)
}

// Decode returns the witness program of the address.
func (P2W) Decode(addr string, net Network) ([]byte, error) {
	if !(P2W{}).Check(addr) {
		return nil, fmt.Errorf("%w: %s is not a p2w address",
			ErrInvalidPrefix, addr)
	}

	program, err := decodeSegwit(addr, net, 0)
	if err != nil {
		return nil, err
	}
	if len(program) != 20 && len(program) != 32 {
		return nil, fmt.Errorf("%w: p2w program must be 20 or 32 "+
			"bytes, got %d", ErrInvalidEncoding, len(program))
	}

	return program, nil
}

// Script returns the output script paying to the witness program.
func (P2W) Script(hash []byte) script.Words {
	return script.Words{script.Op("OP_0"), script.Data(hash)}
}

// P2TR is the codec of segwit version 1 taproot addresses.
type P2TR struct{}

// Check returns true if the address carries a taproot prefix.
func (P2TR) Check(addr string) bool {
	return hasAnyPrefix(addr, "bc1p", "tb1p", "bcrt1p")
}

// Encode encodes a 32-byte x-only output key as a version 1 witness
// program.
func (P2TR) Encode(key []byte, net Network) (string, error) {
	if len(key) != 32 {
		return "", fmt.Errorf("%w: p2tr key must be 32 bytes, got %d",
			ErrKeySize, len(key))
	}

	return encodeSegwit(net, 1, key)
}

// Decode returns the output key of the address.
func (P2TR) Decode(addr string, net Network) ([]byte, error) {
	if !(P2TR{}).Check(addr) {
		return nil, fmt.Errorf("%w: %s is not a p2tr address",
			ErrInvalidPrefix, addr)
	}

	key, err := decodeSegwit(addr, net, 1)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: p2tr program must be 32 bytes, "+
			"got %d", ErrInvalidEncoding, len(key))
	}

	return key, nil
}

// Script returns the output script paying to the output key.
func (P2TR) Script(key []byte) script.Words {
	return script.Words{script.Op("OP_1"), script.Data(key)}
}
