package address

import (
	"github.com/lightninglabs/tapkit/errkind"
)

var (
	// ErrKeySize is returned when the key or script passed to an encoder
	// has a length the address type can't commit to.
	ErrKeySize = errkind.New(errkind.Size, "invalid key size")

	// ErrUnknownAddress is returned when an address matches none of the
	// known address prefixes.
	ErrUnknownAddress = errkind.New(
		errkind.Format, "unable to detect address type",
	)

	// ErrInvalidPrefix is returned when an address is passed to a decoder
	// for a different address type.
	ErrInvalidPrefix = errkind.New(
		errkind.Format, "invalid prefix for address type",
	)

	// ErrInvalidEncoding is returned when the bech32 or base58check
	// payload of an address can't be decoded.
	ErrInvalidEncoding = errkind.New(
		errkind.Format, "invalid address encoding",
	)

	// ErrWrongNetwork is returned when an address encodes a different
	// network than the one it is decoded for.
	ErrWrongNetwork = errkind.New(
		errkind.Format, "address is for a different network",
	)

	// ErrWitnessVersion is returned when a segwit address uses a witness
	// version or checksum variant the address type doesn't allow.
	ErrWitnessVersion = errkind.New(
		errkind.Format, "unexpected witness version",
	)

	// ErrUnknownNetwork is returned for an unknown network name.
	ErrUnknownNetwork = errkind.New(errkind.Format, "unknown network")

	// ErrUnknownKind is returned for an unknown address kind.
	ErrUnknownKind = errkind.New(errkind.Format, "unknown address kind")
)
