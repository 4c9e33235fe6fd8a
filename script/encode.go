package script

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightninglabs/tapkit/fn"
)

const (
	// MaxWordSize is the largest data push that is encoded as a single
	// push. Larger data is split into several consecutive pushes.
	MaxWordSize = 0x208

	// maxDirectPush is the largest push whose size is encoded as a single
	// length byte.
	maxDirectPush = 0x4b

	// maxPushData1 is the largest push that uses OP_PUSHDATA1.
	maxPushData1 = 0xff

	// maxSmallNum is the largest value that is encoded as a small number
	// opcode instead of a data push.
	maxSmallNum = 16
)

// Source is anything that can be interpreted as script bytes.
type Source interface {
	// ScriptBytes returns the encoded script.
	ScriptBytes() ([]byte, error)
}

// Raw is a script that is already encoded.
type Raw []byte

// ScriptBytes returns a copy of the raw script.
func (r Raw) ScriptBytes() ([]byte, error) {
	return fn.CopySlice(r), nil
}

// RawHex is an encoded script given as hex text.
type RawHex string

// ScriptBytes decodes the hex text.
func (r RawHex) ScriptBytes() ([]byte, error) {
	b, err := hex.DecodeString(string(r))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}

	return b, nil
}

// ScriptBytes encodes the words.
func (w Words) ScriptBytes() ([]byte, error) {
	return EncodeWords(w)
}

// EncodeSize returns the size prefix of a data push of the given length.
func EncodeSize(size int) ([]byte, error) {
	switch {
	case size < 0 || size > MaxWordSize:
		return nil, fmt.Errorf("%w: %d", ErrWordSize, size)

	case size <= maxDirectPush:
		return []byte{byte(size)}, nil

	case size <= maxPushData1:
		return []byte{txscript.OP_PUSHDATA1, byte(size)}, nil

	default:
		prefix := []byte{txscript.OP_PUSHDATA2, 0, 0}
		binary.BigEndian.PutUint16(prefix[1:], uint16(size))
		return prefix, nil
	}
}

// smallNum encodes a value in [0, 16] as a single opcode byte. Zero is kept
// as is, any other value v becomes v & 0x50.
//
// NOTE: The result is not the OP_1..OP_16 opcode, so these words don't
// decode back to themselves. Values 1-15 become OP_0 and 16 becomes a push
// header of 16 bytes.
func smallNum(v byte) byte {
	if v == 0 {
		return 0
	}

	return v & 0x50
}

// EncodeWord encodes a single word. Opcodes become their single byte value,
// data becomes one or more length prefixed pushes.
func EncodeWord(w Word) ([]byte, error) {
	switch word := w.(type) {
	case Op:
		op, ok := txscript.OpcodeByName[string(word)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode,
				string(word))
		}
		return []byte{op}, nil

	case Code:
		return []byte{byte(word)}, nil

	case Num:
		if word > maxSmallNum {
			return nil, fmt.Errorf("%w: %d", ErrNumRange,
				uint8(word))
		}
		return []byte{smallNum(byte(word))}, nil

	case Data:
		return encodeData(word)

	case Hex:
		data, err := hex.DecodeString(string(word))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
		}
		return encodeData(data)

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownWord, w)
	}
}

// encodeData encodes a data push, splitting it into chained pushes if it is
// larger than MaxWordSize.
func encodeData(data []byte) ([]byte, error) {
	if len(data) == 1 && data[0] <= maxSmallNum {
		return []byte{smallNum(data[0])}, nil
	}

	if len(data) > MaxWordSize {
		log.Tracef("Splitting push of %d bytes", len(data))

		var buf bytes.Buffer
		for start := 0; start < len(data); start += MaxWordSize {
			end := start + MaxWordSize
			if end > len(data) {
				end = len(data)
			}

			chunk, err := encodeData(data[start:end])
			if err != nil {
				return nil, err
			}
			buf.Write(chunk)
		}

		return buf.Bytes(), nil
	}

	prefix, err := EncodeSize(len(data))
	if err != nil {
		return nil, err
	}

	return append(prefix, data...), nil
}

// EncodeWords encodes the words in order and concatenates the result.
func EncodeWords(words Words) ([]byte, error) {
	var buf bytes.Buffer
	for i, word := range words {
		b, err := EncodeWord(word)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
		buf.Write(b)
	}

	return buf.Bytes(), nil
}

// EncodeScript interprets the source and, if varint is true, prefixes the
// script with its length as a Bitcoin compact size.
func EncodeScript(src Source, varint bool) ([]byte, error) {
	script, err := src.ScriptBytes()
	if err != nil {
		return nil, err
	}

	if !varint {
		return script, nil
	}

	var buf bytes.Buffer
	err = wire.WriteVarInt(&buf, 0, uint64(len(script)))
	if err != nil {
		return nil, err
	}
	buf.Write(script)

	return buf.Bytes(), nil
}
