package bip340

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/lightninglabs/tapkit/fn"
)

// fieldPrime is the big-endian encoding of the secp256k1 field size p.
var fieldPrime = [scalarSize]byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xfe, 0xff, 0xff, 0xfc, 0x2f,
}

// Check identifies one of the conditions evaluated while verifying a
// signature.
type Check uint8

const (
	// CheckLength asserts the signature stream holds at least 64 bytes.
	CheckLength Check = iota

	// CheckRRange asserts r < p.
	CheckRRange

	// CheckSRange asserts s < n.
	CheckSRange

	// CheckEvenY asserts R' = sG - eP has an even y coordinate.
	CheckEvenY

	// CheckFinite asserts R' is not the point at infinity.
	CheckFinite

	// CheckMatch asserts the x coordinate of R' equals r.
	CheckMatch
)

// String returns a human-readable name for the check.
func (c Check) String() string {
	switch c {
	case CheckLength:
		return "Length"
	case CheckRRange:
		return "RRange"
	case CheckSRange:
		return "SRange"
	case CheckEvenY:
		return "EvenY"
	case CheckFinite:
		return "Finite"
	case CheckMatch:
		return "Match"
	default:
		return fmt.Sprintf("UnknownCheck(%d)", uint8(c))
	}
}

// CheckResult is the outcome of a single check. Err is nil if the check
// passed.
type CheckResult struct {
	Check Check
	Err   error
}

// Passed returns true if the check succeeded.
func (c CheckResult) Passed() bool {
	return c.Err == nil
}

// VerifyResult records every check evaluated during verification, in order,
// along with the final result.
//
// NOTE: Valid is the outcome of the final x coordinate comparison only. A
// failed earlier check does not force Valid to false, so callers that want
// the strict BIP340 answer should also consult FirstFailure.
type VerifyResult struct {
	// Checks holds one entry per evaluated check, in evaluation order.
	Checks []CheckResult

	// Valid is true if the x coordinate of R' equals r.
	Valid bool
}

// FirstFailure returns the error of the first failed check, or nil if all
// checks passed.
func (v *VerifyResult) FirstFailure() error {
	for _, c := range v.Checks {
		if !c.Passed() {
			return c.Err
		}
	}

	return nil
}

// AllPassed returns true if every evaluated check passed.
func (v *VerifyResult) AllPassed() bool {
	return fn.All(v.Checks, CheckResult.Passed)
}

// Failed returns the checks that did not pass, in evaluation order.
func (v *VerifyResult) Failed() []Check {
	var failed []Check
	for _, c := range v.Checks {
		if !c.Passed() {
			failed = append(failed, c.Check)
		}
	}

	return failed
}

// record appends the outcome of a check.
func (v *VerifyResult) record(check Check, failErr error, failed bool) {
	result := CheckResult{Check: check}
	if failed {
		result.Err = failErr
		log.Debugf("Signature check %v failed: %v", check, failErr)
	}

	v.Checks = append(v.Checks, result)
}

// ParsePubKey lifts a public key to the even-y curve point BIP340 associates
// with its x coordinate. Both 32-byte x-only keys and SEC encoded keys are
// accepted. For SEC keys only the x coordinate is used.
func ParsePubKey(pubKey []byte) (*btcec.PublicKey, error) {
	xOnly := pubKey
	if len(pubKey) != schnorr.PubKeyBytesLen {
		key, err := btcec.ParsePubKey(pubKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPubKey, err)
		}
		xOnly = schnorr.SerializePubKey(key)
	}

	key, err := schnorr.ParsePubKey(xOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPubKey, err)
	}

	return key, nil
}

// CheckSignature evaluates every BIP340 verification condition for the
// signature over msg by pubKey. All checks are evaluated even if an earlier
// one failed. An error is only returned if the public key is unusable.
func CheckSignature(sig, msg, pubKey []byte) (*VerifyResult, error) {
	key, err := ParsePubKey(pubKey)
	if err != nil {
		return nil, err
	}
	pubKeyX := schnorr.SerializePubKey(key)

	result := &VerifyResult{
		Checks: make([]CheckResult, 0, int(CheckMatch)+1),
	}

	// A short stream is zero padded so the remaining checks can still be
	// evaluated. Bytes beyond the first 64 are ignored.
	var raw [SignatureSize]byte
	copy(raw[:], sig)
	result.record(
		CheckLength, fmt.Errorf("%w: %d", ErrSigTooShort, len(sig)),
		len(sig) < SignatureSize,
	)

	var r, sBytes [scalarSize]byte
	copy(r[:], raw[:scalarSize])
	copy(sBytes[:], raw[scalarSize:])

	// Fail if r >= p.
	result.record(
		CheckRRange, ErrSigRTooLarge,
		bytes.Compare(r[:], fieldPrime[:]) >= 0,
	)

	// Fail if s >= n. The scalar is reduced modulo n for the rest of the
	// computation.
	var s btcec.ModNScalar
	overflow := s.SetBytes(&sBytes)
	result.record(CheckSRange, ErrSigSTooLarge, overflow != 0)

	// e = hash_challenge(r || P.x || m) mod n.
	e := challenge(r[:], pubKeyX, msg)

	// R' = sG - eP.
	var p, sG, eP, rPoint btcec.JacobianPoint
	key.AsJacobian(&p)
	btcec.ScalarBaseMultNonConst(&s, &sG)
	e.Negate()
	btcec.ScalarMultNonConst(&e, &p, &eP)
	btcec.AddNonConst(&sG, &eP, &rPoint)

	// The point at infinity is treated as having both coordinates zero.
	infinite := (rPoint.X.IsZero() && rPoint.Y.IsZero()) ||
		rPoint.Z.IsZero()
	var rX [scalarSize]byte
	var oddY bool
	if !infinite {
		rPoint.ToAffine()
		rX = *rPoint.X.Bytes()
		oddY = rPoint.Y.IsOdd()
	}

	result.record(CheckEvenY, ErrSigROddY, oddY)
	result.record(CheckFinite, ErrSigRInfinity, infinite)

	result.Valid = rX == r
	result.record(CheckMatch, ErrSigMismatch, !result.Valid)

	return result, nil
}

// Verify checks the signature over msg by pubKey.
//
// If strict is false, failing checks are logged but do not stop evaluation,
// and the returned boolean is the result of the final x coordinate
// comparison. If strict is true, the first failing check before the final
// comparison is returned as an error.
func Verify(sig, msg, pubKey []byte, strict bool) (bool, error) {
	result, err := CheckSignature(sig, msg, pubKey)
	if err != nil {
		return false, err
	}

	// A mismatching x coordinate is reported through the boolean in
	// both modes.
	if strict {
		for _, c := range result.Checks {
			if c.Check != CheckMatch && !c.Passed() {
				return false, c.Err
			}
		}
	}

	return result.Valid, nil
}
