package address

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/lightninglabs/tapkit/script"
)

// pubKeyHashSize is the size of a HASH160 digest.
const pubKeyHashSize = 20

// decodeBase58 decodes a base58check address and checks its version byte.
func decodeBase58(addr string, version byte) ([]byte, error) {
	payload, gotVersion, err := base58.CheckDecode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	if gotVersion != version {
		return nil, fmt.Errorf("%w: version 0x%02x, want 0x%02x",
			ErrWrongNetwork, gotVersion, version)
	}

	if len(payload) != pubKeyHashSize {
		return nil, fmt.Errorf("%w: hash must be %d bytes, got %d",
			ErrInvalidEncoding, pubKeyHashSize, len(payload))
	}

	return payload, nil
}

// P2PKH is the codec of legacy pay-to-pubkey-hash addresses.
type P2PKH struct{}

// Check returns true if the address carries a p2pkh prefix.
func (P2PKH) Check(addr string) bool {
	return hasAnyPrefix(addr, "1", "m", "n")
}

// Encode hashes a 33-byte compressed public key and encodes the hash.
func (P2PKH) Encode(key []byte, net Network) (string, error) {
	if len(key) != 33 {
		return "", fmt.Errorf("%w: p2pkh key must be 33 bytes, got %d",
			ErrKeySize, len(key))
	}

	return base58.CheckEncode(
		btcutil.Hash160(key), net.Params().PubKeyHashAddrID,
	), nil
}

// Decode returns the public key hash of the address.
func (P2PKH) Decode(addr string, net Network) ([]byte, error) {
	if !(P2PKH{}).Check(addr) {
		return nil, fmt.Errorf("%w: %s is not a p2pkh address",
			ErrInvalidPrefix, addr)
	}

	return decodeBase58(addr, net.Params().PubKeyHashAddrID)
}

// Script returns the output script paying to the public key hash.
func (P2PKH) Script(hash []byte) script.Words {
	return script.Words{
		script.Op("OP_DUP"), script.Op("OP_HASH160"), script.Data(hash),
		script.Op("OP_EQUALVERIFY"), script.Op("OP_CHECKSIG"),
	}
}

// P2SH is the codec of legacy pay-to-script-hash addresses.
type P2SH struct{}

// Check returns true if the address carries a p2sh prefix.
func (P2SH) Check(addr string) bool {
	return hasAnyPrefix(addr, "3", "2")
}

// Encode hashes the redeem script and encodes the hash.
func (P2SH) Encode(redeemScript []byte, net Network) (string, error) {
	if len(redeemScript) == 0 {
		return "", fmt.Errorf("%w: p2sh script is empty", ErrKeySize)
	}

	return base58.CheckEncode(
		btcutil.Hash160(redeemScript), net.Params().ScriptHashAddrID,
	), nil
}

// Decode returns the script hash of the address.
func (P2SH) Decode(addr string, net Network) ([]byte, error) {
	if !(P2SH{}).Check(addr) {
		return nil, fmt.Errorf("%w: %s is not a p2sh address",
			ErrInvalidPrefix, addr)
	}

	return decodeBase58(addr, net.Params().ScriptHashAddrID)
}

// Script returns the output script paying to the script hash.
func (P2SH) Script(hash []byte) script.Words {
	return script.Words{
		script.Op("OP_HASH160"), script.Data(hash), script.Op("OP_EQUAL"),
	}
}
