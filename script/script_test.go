package script

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/lightninglabs/tapkit/errkind"
	"github.com/lightninglabs/tapkit/internal/test"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestEncodeWord checks the push encoding of single words.
func TestEncodeWord(t *testing.T) {
	t.Parallel()

	data300 := bytes.Repeat([]byte{0xaa}, 300)
	data255 := bytes.Repeat([]byte{0xbb}, 255)
	data75 := bytes.Repeat([]byte{0xcc}, 75)
	data76 := bytes.Repeat([]byte{0xdd}, 76)

	testCases := []struct {
		name     string
		word     Word
		expected []byte
	}{{
		name:     "opcode mnemonic",
		word:     Op("OP_CHECKSIG"),
		expected: []byte{txscript.OP_CHECKSIG},
	}, {
		name:     "raw opcode",
		word:     Code(txscript.OP_EQUAL),
		expected: []byte{0x87},
	}, {
		name:     "small number zero",
		word:     Data{0x00},
		expected: []byte{0x00},
	}, {
		name:     "small number seven",
		word:     Data{0x07},
		expected: []byte{0x07 & 0x50},
	}, {
		name:     "small number sixteen",
		word:     Data{0x10},
		expected: []byte{0x10},
	}, {
		name:     "num word",
		word:     Num(16),
		expected: []byte{0x10},
	}, {
		name:     "single byte above sixteen",
		word:     Data{0x11},
		expected: []byte{0x01, 0x11},
	}, {
		name:     "hex word",
		word:     Hex("0102"),
		expected: []byte{0x02, 0x01, 0x02},
	}, {
		name:     "empty data",
		word:     Data{},
		expected: []byte{0x00},
	}, {
		name:     "largest direct push",
		word:     Data(data75),
		expected: append([]byte{0x4b}, data75...),
	}, {
		name:     "smallest pushdata1",
		word:     Data(data76),
		expected: append([]byte{0x4c, 0x4c}, data76...),
	}, {
		name:     "largest pushdata1",
		word:     Data(data255),
		expected: append([]byte{0x4c, 0xff}, data255...),
	}, {
		name:     "pushdata2",
		word:     Data(data300),
		expected: append([]byte{0x4d, 0x01, 0x2c}, data300...),
	}}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(tt *testing.T) {
			tt.Parallel()

			encoded, err := EncodeWord(tc.word)
			require.NoError(tt, err)
			require.Equal(tt, tc.expected, encoded)
		})
	}
}

// TestEncodeWordErrors checks the errors of EncodeWord.
func TestEncodeWordErrors(t *testing.T) {
	t.Parallel()

	_, err := EncodeWord(Op("OP_NOTANOPCODE"))
	require.ErrorIs(t, err, ErrUnknownOpcode)
	require.ErrorIs(t, err, errkind.Format)

	_, err = EncodeWord(Hex("zz"))
	require.ErrorIs(t, err, ErrInvalidHex)

	_, err = EncodeWord(Num(17))
	require.ErrorIs(t, err, ErrNumRange)
	require.ErrorIs(t, err, errkind.Range)

	_, err = EncodeSize(MaxWordSize + 1)
	require.ErrorIs(t, err, ErrWordSize)
	require.ErrorIs(t, err, errkind.Size)

	_, err = EncodeSize(-1)
	require.ErrorIs(t, err, ErrWordSize)

	_, err = EncodeWords(Words{Op("OP_1"), Op("OP_BAD")})
	require.ErrorIs(t, err, ErrUnknownOpcode)
	require.ErrorContains(t, err, "word 1")
}

// TestSplitWord checks that oversized pushes are split into chained pushes.
func TestSplitWord(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte{0x42}, MaxWordSize+1)
	encoded, err := EncodeWord(Data(data))
	require.NoError(t, err)

	expected := []byte{0x4d, 0x02, 0x08}
	expected = append(expected, data[:MaxWordSize]...)
	expected = append(expected, 0x01, 0x42)
	require.Equal(t, expected, encoded)

	words, err := DecodeScript(encoded, false)
	require.NoError(t, err)
	require.Len(t, words, 2)
	require.Len(t, words[0], MaxWordSize)
	require.Equal(t, Data{0x42}, words[1])

	// A trailing chunk that is a small number is encoded as one.
	data[MaxWordSize] = 0x05
	encoded, err = EncodeWord(Data(data))
	require.NoError(t, err)
	require.Equal(t, byte(0x05&0x50), encoded[len(encoded)-1])
	require.Len(t, encoded, 3+MaxWordSize+1)
}

// TestSmallNumDecode pins the decoding of the small number encoding, which
// does not produce the original word.
func TestSmallNumDecode(t *testing.T) {
	t.Parallel()

	encoded, err := EncodeWord(Data{0x07})
	require.NoError(t, err)
	words, err := DecodeScript(encoded, false)
	require.NoError(t, err)
	require.Equal(t, Words{Op("OP_0")}, words)

	encoded, err = EncodeWord(Data{0x10})
	require.NoError(t, err)
	_, err = DecodeScript(encoded, false)
	require.ErrorIs(t, err, ErrTruncatedPush)
}

// TestEncodeScript checks the script sources and the compact size prefix.
func TestEncodeScript(t *testing.T) {
	t.Parallel()

	words := Words{
		Op("OP_DUP"), Op("OP_HASH160"), Data(bytes.Repeat(
			[]byte{0x01}, 20,
		)), Op("OP_EQUALVERIFY"), Op("OP_CHECKSIG"),
	}

	raw, err := EncodeScript(words, false)
	require.NoError(t, err)
	require.Len(t, raw, 25)

	// The result must match the script builder of btcd.
	expected, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(bytes.Repeat([]byte{0x01}, 20)).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	require.NoError(t, err)
	require.Equal(t, expected, raw)

	prefixed, err := EncodeScript(words, true)
	require.NoError(t, err)
	require.Equal(t, append([]byte{25}, raw...), prefixed)

	fromRaw, err := EncodeScript(Raw(raw), true)
	require.NoError(t, err)
	require.Equal(t, prefixed, fromRaw)

	fromHex, err := EncodeScript(RawHex(hex.EncodeToString(raw)), false)
	require.NoError(t, err)
	require.Equal(t, raw, fromHex)

	_, err = EncodeScript(RawHex("0g"), false)
	require.ErrorIs(t, err, ErrInvalidHex)

	empty, err := EncodeScript(Words{}, true)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, empty)

	// Scripts longer than 252 bytes use a three byte compact size.
	long, err := EncodeScript(Raw(make([]byte, 300)), true)
	require.NoError(t, err)
	require.Equal(t, []byte{0xfd, 0x2c, 0x01}, long[:3])

	words, err = DecodeScript(prefixed, true)
	require.NoError(t, err)
	require.Equal(t, "OP_DUP OP_HASH160 "+
		"0101010101010101010101010101010101010101 OP_EQUALVERIFY "+
		"OP_CHECKSIG", words.String())
}

// TestDecodeScriptErrors checks malformed scripts.
func TestDecodeScriptErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		script []byte
		varint bool
		err    error
	}{{
		name:   "truncated direct push",
		script: []byte{0x05, 0x01, 0x02},
		err:    ErrTruncatedPush,
	}, {
		name:   "missing pushdata1 length",
		script: []byte{0x4c},
		err:    ErrTruncatedPush,
	}, {
		name:   "missing pushdata2 length",
		script: []byte{0x4d, 0x01},
		err:    ErrTruncatedPush,
	}, {
		name:   "truncated pushdata2",
		script: []byte{0x4d, 0x01, 0x00, 0x01},
		err:    ErrTruncatedPush,
	}, {
		name:   "pushdata4",
		script: []byte{0x4e, 0x01, 0x00, 0x00, 0x00, 0x01},
		err:    ErrUnsupportedPush,
	}, {
		name:   "length prefix too large",
		script: []byte{0x02, 0x51},
		varint: true,
		err:    ErrLengthMismatch,
	}, {
		name:   "missing length prefix",
		script: []byte{},
		varint: true,
		err:    ErrLengthMismatch,
	}}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(tt *testing.T) {
			tt.Parallel()

			_, err := DecodeScript(tc.script, tc.varint)
			require.ErrorIs(tt, err, tc.err)
			require.ErrorIs(tt, err, errkind.Format)
		})
	}
}

// TestDisasm checks the text form of opcodes, including aliases.
func TestDisasm(t *testing.T) {
	t.Parallel()

	text, err := Disasm([]byte{
		txscript.OP_0, txscript.OP_1, txscript.OP_CHECKLOCKTIMEVERIFY,
		txscript.OP_CHECKSEQUENCEVERIFY, 0x02, 0xab, 0xcd,
	})
	require.NoError(t, err)
	require.Equal(
		t, "OP_0 OP_1 OP_CHECKLOCKTIMEVERIFY OP_CHECKSEQUENCEVERIFY "+
			"abcd", text,
	)

	words := ParseWords("OP_1 abcd  OP_CHECKSIG")
	require.Equal(t, Words{Op("OP_1"), Hex("abcd"), Op("OP_CHECKSIG")},
		words)

	encoded, err := EncodeWords(words)
	require.NoError(t, err)
	require.Equal(t, []byte{0x51, 0x02, 0xab, 0xcd, 0xac}, encoded)
}

// TestDecodeRoundTrip checks that decoding inverts encoding for canonical
// words.
func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	opNames := []string{
		"OP_DUP", "OP_HASH160", "OP_EQUAL", "OP_EQUALVERIFY",
		"OP_CHECKSIG", "OP_CHECKSIGADD", "OP_RETURN", "OP_1",
		"OP_16", "OP_IF", "OP_ELSE", "OP_ENDIF",
	}

	genWord := rapid.Custom(func(t *rapid.T) Word {
		if rapid.Bool().Draw(t, "is_op") {
			return Op(rapid.SampledFrom(opNames).Draw(t, "op"))
		}

		size := rapid.IntRange(1, MaxWordSize).Draw(t, "size")
		data := rapid.SliceOfN(rapid.Byte(), size, size).Draw(t, "data")

		// Single bytes up to sixteen are small numbers, not pushes.
		if size == 1 && data[0] <= maxSmallNum {
			data[0] += maxSmallNum + 1
		}

		return Data(data)
	})

	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOf(genWord).Draw(t, "words")

		encoded, err := EncodeWords(words)
		require.NoError(t, err)

		decoded, err := DecodeScript(encoded, false)
		require.NoError(t, err)

		if len(words) == 0 {
			require.Empty(t, decoded)
			return
		}
		require.Equal(t, Words(words), decoded)
	})
}

// TestSplitProperty checks that oversized data survives the split and
// decode, and that every chained push is within the size limit.
func TestSplitProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(MaxWordSize+1, 3*MaxWordSize).Draw(
			t, "size",
		)
		data := test.RandBytes(size)

		// Keep the trailing chunk from being a small number.
		data[len(data)-1] = 0xff

		encoded, err := EncodeWord(Data(data))
		require.NoError(t, err)

		words, err := DecodeScript(encoded, false)
		require.NoError(t, err)

		var joined []byte
		for _, word := range words {
			push, ok := word.(Data)
			require.True(t, ok)
			require.LessOrEqual(t, len(push), MaxWordSize)
			joined = append(joined, push...)
		}
		require.Equal(t, data, joined)
	})
}
