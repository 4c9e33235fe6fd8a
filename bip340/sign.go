package bip340

import (
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lightninglabs/tapkit/taphash"
)

const (
	// SignatureSize is the size of a serialized signature: the x
	// coordinate of the nonce point followed by the s scalar.
	SignatureSize = 64

	// SecretKeySize is the size of a serialized secret key.
	SecretKeySize = 32

	// AuxSize is the size of the auxiliary randomness mixed into the
	// nonce.
	AuxSize = 32

	// scalarSize is the size of each half of a signature.
	scalarSize = 32
)

// Signature is a 64-byte BIP340 signature, R.x || s, both big-endian.
type Signature [SignatureSize]byte

// R returns the x coordinate of the nonce point.
func (s *Signature) R() [scalarSize]byte {
	var r [scalarSize]byte
	copy(r[:], s[:scalarSize])
	return r
}

// S returns the signature scalar.
func (s *Signature) S() [scalarSize]byte {
	var sc [scalarSize]byte
	copy(sc[:], s[scalarSize:])
	return sc
}

// Sign creates a BIP340 signature over msg using the given secret key. The
// auxiliary randomness is the only non-deterministic input of the algorithm,
// so passing a fixed value makes signing fully reproducible.
func Sign(secKey, msg []byte, aux [AuxSize]byte) (*Signature, error) {
	if len(secKey) != SecretKeySize {
		return nil, fmt.Errorf("%w: got %d", ErrSecretKeySize,
			len(secKey))
	}

	// Let d' be the integer value of the secret key, which must be in
	// the range [1, n-1].
	var d btcec.ModNScalar
	if overflow := d.SetByteSlice(secKey); overflow || d.IsZero() {
		return nil, ErrSecretKeyRange
	}

	// Let P = d'G, and negate d' if P has an odd y coordinate so that
	// the working scalar always corresponds to the even-y point.
	var p btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&d, &p)
	p.ToAffine()
	if p.Y.IsOdd() {
		d.Negate()
	}
	pubKeyX := p.X.Bytes()

	// Let t be the byte-wise xor of d and the tagged hash of the
	// auxiliary data.
	auxHash := taphash.Hash(taphash.TagAux, aux[:])
	dBytes := d.Bytes()
	var t [scalarSize]byte
	for i := range t {
		t[i] = dBytes[i] ^ auxHash[i]
	}

	// The nonce is k' = hash_nonce(t || P.x || m) mod n.
	nonce := taphash.Hash(taphash.TagNonce, t[:], pubKeyX[:], msg)
	var k btcec.ModNScalar
	k.SetByteSlice(nonce[:])
	if k.IsZero() {
		return nil, ErrZeroNonce
	}

	// Let R = k'G, and negate k' if R has an odd y coordinate.
	var r btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&k, &r)
	r.ToAffine()
	if r.Y.IsOdd() {
		k.Negate()
	}
	nonceX := r.X.Bytes()

	// e = hash_challenge(R.x || P.x || m) mod n.
	e := challenge(nonceX[:], pubKeyX[:], msg)

	// s = k + ed mod n.
	s := new(btcec.ModNScalar).Mul2(&e, &d).Add(&k)

	var sig Signature
	copy(sig[:scalarSize], nonceX[:])
	sBytes := s.Bytes()
	copy(sig[scalarSize:], sBytes[:])

	log.Tracef("Signed message of %d bytes with nonce point %x",
		len(msg), nonceX[:])

	return &sig, nil
}

// SignWithRand is identical to Sign, but draws the auxiliary randomness from
// the passed reader.
func SignWithRand(secKey, msg []byte, rand io.Reader) (*Signature, error) {
	var aux [AuxSize]byte
	if _, err := io.ReadFull(rand, aux[:]); err != nil {
		return nil, fmt.Errorf("unable to read aux randomness: %w",
			err)
	}

	return Sign(secKey, msg, aux)
}

// PubKey returns the 32-byte x-only public key BIP340 associates with the
// passed secret key.
func PubKey(secKey []byte) ([scalarSize]byte, error) {
	var pubKey [scalarSize]byte
	if len(secKey) != SecretKeySize {
		return pubKey, fmt.Errorf("%w: got %d", ErrSecretKeySize,
			len(secKey))
	}

	var d btcec.ModNScalar
	if overflow := d.SetByteSlice(secKey); overflow || d.IsZero() {
		return pubKey, ErrSecretKeyRange
	}

	var p btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&d, &p)
	p.ToAffine()

	return *p.X.Bytes(), nil
}

// challenge computes e = hash_challenge(r || P.x || m) mod n.
func challenge(r, pubKeyX, msg []byte) btcec.ModNScalar {
	h := taphash.Hash(taphash.TagChallenge, r, pubKeyX, msg)

	var e btcec.ModNScalar
	e.SetByteSlice(h[:])

	return e
}
