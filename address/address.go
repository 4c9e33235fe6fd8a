// Package address detects, decodes and encodes Bitcoin addresses and turns
// them into output scripts.
package address

import (
	"fmt"
	"strings"

	"github.com/lightninglabs/tapkit/script"
)

// Codec encodes and decodes the addresses of a single address kind.
type Codec interface {
	// Check returns true if the address text has a prefix of this kind.
	// The encoding itself is not validated.
	Check(addr string) bool

	// Encode commits to the key and returns the address for the network.
	Encode(key []byte, net Network) (string, error)

	// Decode returns the hash or key the address commits to.
	Decode(addr string, net Network) ([]byte, error)

	// Script returns the words of the output script paying to the hash
	// or key returned by Decode.
	Script(hash []byte) script.Words
}

// Kind names an address kind.
type Kind string

const (
	// KindP2PKH is a legacy pay-to-pubkey-hash address.
	KindP2PKH Kind = "p2pkh"

	// KindP2SH is a legacy pay-to-script-hash address.
	KindP2SH Kind = "p2sh"

	// KindP2W is a segwit version 0 address.
	KindP2W Kind = "p2w"

	// KindP2TR is a segwit version 1 taproot address.
	KindP2TR Kind = "p2tr"
)

// codecs maps every kind to its codec.
var codecs = map[Kind]Codec{
	KindP2PKH: P2PKH{},
	KindP2SH:  P2SH{},
	KindP2W:   P2W{},
	KindP2TR:  P2TR{},
}

// Type is an entry of the address type table.
type Type struct {
	// Prefix is the text every address of this type starts with.
	Prefix string

	// Kind is the address kind.
	Kind Kind

	// Network is the network addresses with this prefix belong to.
	Network Network

	// Codec handles addresses of this type.
	Codec Codec
}

// Types is the address type table. Detection picks the first entry whose
// prefix matches, so the order of the entries matters.
var Types = []Type{
	{"1", KindP2PKH, Main, P2PKH{}},
	{"3", KindP2SH, Main, P2SH{}},
	{"m", KindP2PKH, Testnet, P2PKH{}},
	{"n", KindP2PKH, Testnet, P2PKH{}},
	{"2", KindP2SH, Testnet, P2SH{}},
	{"bc1q", KindP2W, Main, P2W{}},
	{"tb1q", KindP2W, Testnet, P2W{}},
	{"bcrt1q", KindP2W, Regtest, P2W{}},
	{"bc1p", KindP2TR, Main, P2TR{}},
	{"tb1p", KindP2TR, Testnet, P2TR{}},
	{"bcrt1p", KindP2TR, Regtest, P2TR{}},
}

// DetectType returns the first table entry whose prefix the address starts
// with.
func DetectType(addr string) (*Type, error) {
	for i := range Types {
		if strings.HasPrefix(addr, Types[i].Prefix) {
			return &Types[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownAddress, addr)
}

// DecodeAddress detects the type of the address and returns the hash or
// key it commits to.
func DecodeAddress(addr string) ([]byte, error) {
	addrType, err := DetectType(addr)
	if err != nil {
		return nil, err
	}

	return addrType.Codec.Decode(addr, addrType.Network)
}

// ConvertAddress returns the output script paying to the address.
func ConvertAddress(addr string) ([]byte, error) {
	addrType, err := DetectType(addr)
	if err != nil {
		return nil, err
	}

	hash, err := addrType.Codec.Decode(addr, addrType.Network)
	if err != nil {
		return nil, err
	}

	log.Debugf("Converting %v address on %v", addrType.Kind,
		addrType.Network)

	return script.EncodeScript(addrType.Codec.Script(hash), false)
}

// Encode returns the address of the given kind for the key on the network.
func Encode(kind Kind, key []byte, net Network) (string, error) {
	codec, ok := codecs[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	return codec.Encode(key, net)
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(name))
	if _, ok := codecs[kind]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}

	return kind, nil
}
