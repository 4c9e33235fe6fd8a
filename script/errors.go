package script

import (
	"github.com/lightninglabs/tapkit/errkind"
)

var (
	// ErrWordSize is returned when a push size can't be represented by
	// any of the push encodings.
	ErrWordSize = errkind.New(errkind.Size, "invalid word size")

	// ErrUnknownOpcode is returned for an opcode mnemonic that isn't in
	// the opcode table.
	ErrUnknownOpcode = errkind.New(errkind.Format, "unknown opcode")

	// ErrInvalidHex is returned for hex text that can't be decoded.
	ErrInvalidHex = errkind.New(errkind.Format, "invalid hex")

	// ErrNumRange is returned for a small number word outside of [0, 16].
	ErrNumRange = errkind.New(
		errkind.Range, "small number must be in the range [0, 16]",
	)

	// ErrTruncatedPush is returned when a script ends in the middle of a
	// data push.
	ErrTruncatedPush = errkind.New(errkind.Format, "truncated data push")

	// ErrUnsupportedPush is returned when decoding an OP_PUSHDATA4 push,
	// which the encoder never produces.
	ErrUnsupportedPush = errkind.New(
		errkind.Format, "OP_PUSHDATA4 pushes are not supported",
	)

	// ErrLengthMismatch is returned when the compact size prefix of a
	// script doesn't match the length of the script that follows it.
	ErrLengthMismatch = errkind.New(
		errkind.Format, "script length prefix mismatch",
	)

	// ErrUnknownWord is returned for a Word implementation that is not
	// one of the known variants.
	ErrUnknownWord = errkind.New(errkind.Format, "unknown word type")
)
