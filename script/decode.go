package script

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightninglabs/tapkit/fn"
)

// DecodeScript splits an encoded script into its words. If varint is true,
// the script is expected to start with its compact size length.
//
// Data pushes are returned as Data and everything else as Op, or Code if
// the opcode has no mnemonic. Push lengths are read the same way EncodeWord
// writes them.
func DecodeScript(script []byte, varint bool) (Words, error) {
	if varint {
		r := bytes.NewReader(script)
		size, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLengthMismatch, err)
		}
		if size != uint64(r.Len()) {
			return nil, fmt.Errorf("%w: prefix %d, script %d",
				ErrLengthMismatch, size, r.Len())
		}

		script = script[len(script)-r.Len():]
	}

	var words Words
	for i := 0; i < len(script); {
		op := script[i]
		i++

		var size int
		switch {
		case op == txscript.OP_0:
			words = append(words, Op("OP_0"))
			continue

		case op <= maxDirectPush:
			size = int(op)

		case op == txscript.OP_PUSHDATA1:
			if i+1 > len(script) {
				return nil, fmt.Errorf("%w: missing length at "+
					"offset %d", ErrTruncatedPush, i)
			}
			size = int(script[i])
			i++

		case op == txscript.OP_PUSHDATA2:
			if i+2 > len(script) {
				return nil, fmt.Errorf("%w: missing length at "+
					"offset %d", ErrTruncatedPush, i)
			}
			size = int(binary.BigEndian.Uint16(script[i : i+2]))
			i += 2

		case op == txscript.OP_PUSHDATA4:
			return nil, ErrUnsupportedPush

		default:
			if name, ok := opcodeNames[op]; ok {
				words = append(words, Op(name))
			} else {
				words = append(words, Code(op))
			}
			continue
		}

		if i+size > len(script) {
			return nil, fmt.Errorf("%w: want %d bytes at offset %d, "+
				"have %d", ErrTruncatedPush, size, i,
				len(script)-i)
		}

		words = append(words, Data(fn.CopySlice(script[i:i+size])))
		i += size
	}

	return words, nil
}

// Disasm decodes the script and returns its text form.
func Disasm(script []byte) (string, error) {
	words, err := DecodeScript(script, false)
	if err != nil {
		return "", err
	}

	return words.String(), nil
}
