package script

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/lightninglabs/tapkit/fn"
)

// Word is a single element of a script: either an opcode or a data push.
// The set of implementations is closed.
type Word interface {
	fmt.Stringer

	// isWord seals the interface.
	isWord()
}

// Op is an opcode given by its mnemonic, for example "OP_CHECKSIG".
type Op string

// Code is an opcode given by its raw byte value.
type Code byte

// Num is a small number in the range [0, 16].
type Num uint8

// Data is a raw data push.
type Data []byte

// Hex is a data push given as hex text.
type Hex string

func (Op) isWord()   {}
func (Code) isWord() {}
func (Num) isWord()  {}
func (Data) isWord() {}
func (Hex) isWord()  {}

// String returns the mnemonic.
func (o Op) String() string {
	return string(o)
}

// String returns the mnemonic of the opcode, or the raw value in hex if the
// opcode is unknown.
func (c Code) String() string {
	if name, ok := opcodeNames[byte(c)]; ok {
		return name
	}

	return fmt.Sprintf("0x%02x", byte(c))
}

// String returns the number in decimal.
func (n Num) String() string {
	return fmt.Sprintf("%d", uint8(n))
}

// String returns the data in hex.
func (d Data) String() string {
	return hex.EncodeToString(d)
}

// String returns the hex text as is.
func (h Hex) String() string {
	return string(h)
}

// Words is an ordered sequence of script words.
type Words []Word

// String returns the space separated disassembly of the words.
func (w Words) String() string {
	parts := make([]string, len(w))
	for i, word := range w {
		parts[i] = word.String()
	}

	return strings.Join(parts, " ")
}

// ParseWord converts the text form of a word. Text starting with "OP_" is
// treated as an opcode mnemonic, anything else as hex data.
func ParseWord(s string) Word {
	if strings.HasPrefix(s, "OP_") {
		return Op(s)
	}

	return Hex(s)
}

// ParseWords splits the text on white space and parses every field.
func ParseWords(s string) Words {
	return fn.Map(strings.Fields(s), ParseWord)
}

// aliasNames are the secondary mnemonics of opcodes that have more than one
// name in the opcode table.
var aliasNames = map[string]struct{}{
	"OP_FALSE": {},
	"OP_TRUE":  {},
	"OP_NOP2":  {},
	"OP_NOP3":  {},
}

// opcodeNames maps every opcode value to its primary mnemonic.
var opcodeNames = func() map[byte]string {
	names := make([]string, 0, len(txscript.OpcodeByName))
	for name := range txscript.OpcodeByName {
		names = append(names, name)
	}
	sort.Strings(names)

	byValue := make(map[byte]string, len(names))
	for _, name := range names {
		if _, ok := aliasNames[name]; ok {
			continue
		}

		op := txscript.OpcodeByName[name]
		if _, ok := byValue[op]; !ok {
			byValue[op] = name
		}
	}

	return byValue
}()
