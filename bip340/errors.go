package bip340

import (
	"github.com/lightninglabs/tapkit/errkind"
)

var (
	// ErrSecretKeySize is returned when a secret key is not exactly 32
	// bytes long.
	ErrSecretKeySize = errkind.New(
		errkind.Size, "secret key must be 32 bytes",
	)

	// ErrSecretKeyRange is returned when a secret key is zero or not
	// smaller than the curve order.
	ErrSecretKeyRange = errkind.New(
		errkind.Range, "secret key is not in the range [1, n-1]",
	)

	// ErrZeroNonce is returned in the negligible case that the derived
	// signing nonce is zero.
	ErrZeroNonce = errkind.New(errkind.Geometry, "signing nonce is zero")

	// ErrInvalidPubKey is returned when a public key can't be lifted to a
	// point on the curve.
	ErrInvalidPubKey = errkind.New(errkind.Format, "invalid public key")

	// ErrSigTooShort is returned when the signature stream is shorter
	// than 64 bytes.
	ErrSigTooShort = errkind.New(
		errkind.Format, "signature length is too small",
	)

	// ErrSigRTooLarge is returned when the r value of a signature is not
	// smaller than the field size.
	ErrSigRTooLarge = errkind.New(
		errkind.Range, "signature r value not below field size",
	)

	// ErrSigSTooLarge is returned when the s value of a signature is not
	// smaller than the curve order.
	ErrSigSTooLarge = errkind.New(
		errkind.Range, "signature s value not below curve order",
	)

	// ErrSigROddY is returned when the recomputed nonce point has an odd
	// y coordinate.
	ErrSigROddY = errkind.New(
		errkind.Geometry, "signature R value has odd Y coordinate",
	)

	// ErrSigRInfinity is returned when the recomputed nonce point is the
	// point at infinity.
	ErrSigRInfinity = errkind.New(
		errkind.Geometry, "signature R value is infinite",
	)

	// ErrSigMismatch is recorded when the x coordinate of the recomputed
	// nonce point doesn't match r.
	ErrSigMismatch = errkind.New(
		errkind.Geometry, "signature R value does not match r",
	)
)
