package taptree

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	lfn "github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/tlv"
)

const (
	// ProofRootType is the TLV type of the tree root.
	ProofRootType tlv.Type = 0

	// ProofTargetType is the TLV type of the optional target.
	ProofTargetType tlv.Type = 2

	// ProofPathType is the TLV type of the path.
	ProofPathType tlv.Type = 4
)

// HashSliceEncoder encodes a slice of hashes as their concatenation.
func HashSliceEncoder(w io.Writer, val any, buf *[8]byte) error {
	if t, ok := val.(*[]chainhash.Hash); ok {
		for _, h := range *t {
			if _, err := w.Write(h[:]); err != nil {
				return err
			}
		}
		return nil
	}
	return tlv.NewTypeForEncodingErr(val, "[]chainhash.Hash")
}

// HashSliceDecoder decodes a concatenation of hashes.
func HashSliceDecoder(r io.Reader, val any, buf *[8]byte, l uint64) error {
	if typ, ok := val.(*[]chainhash.Hash); ok {
		if l > tlv.MaxRecordSize {
			return tlv.ErrRecordTooLarge
		}

		if l%chainhash.HashSize != 0 {
			return tlv.NewTypeForDecodingErr(
				val, "[]chainhash.Hash", l,
				l-l%chainhash.HashSize,
			)
		}

		if l == 0 {
			*typ = nil
			return nil
		}

		hashes := make([]chainhash.Hash, l/chainhash.HashSize)
		for i := range hashes {
			if _, err := io.ReadFull(r, hashes[i][:]); err != nil {
				return err
			}
		}
		*typ = hashes
		return nil
	}
	return tlv.NewTypeForDecodingErr(val, "[]chainhash.Hash", l, l)
}

func hashSliceRecord(hashes *[]chainhash.Hash) tlv.Record {
	sizeFunc := func() uint64 {
		return uint64(len(*hashes) * chainhash.HashSize)
	}
	return tlv.MakeDynamicRecord(
		ProofPathType, hashes, sizeFunc, HashSliceEncoder,
		HashSliceDecoder,
	)
}

// EncodeRecords returns the TLV records of the proof. The target record is
// only included if a target is set.
func (p *Proof) EncodeRecords() []tlv.Record {
	records := []tlv.Record{
		tlv.MakePrimitiveRecord(
			ProofRootType, (*[32]byte)(&p.Root),
		),
	}

	p.Target.WhenSome(func(t chainhash.Hash) {
		target := [32]byte(t)
		records = append(records, tlv.MakePrimitiveRecord(
			ProofTargetType, &target,
		))
	})

	return append(records, hashSliceRecord(&p.Path))
}

// Encode serializes the proof as a TLV stream.
func (p *Proof) Encode(w io.Writer) error {
	stream, err := tlv.NewStream(p.EncodeRecords()...)
	if err != nil {
		return err
	}
	return stream.Encode(w)
}

// Bytes returns the proof serialized as a TLV stream.
func (p *Proof) Bytes() ([]byte, error) {
	var b bytes.Buffer
	if err := p.Encode(&b); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Decode parses a proof from a TLV stream. Unknown odd types are skipped.
func (p *Proof) Decode(r io.Reader) error {
	var (
		root, target [32]byte
		path         []chainhash.Hash
	)
	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(ProofRootType, &root),
		tlv.MakePrimitiveRecord(ProofTargetType, &target),
		hashSliceRecord(&path),
	)
	if err != nil {
		return err
	}

	parsedTypes, err := stream.DecodeWithParsedTypes(r)
	if err != nil {
		return fmt.Errorf("unable to decode proof: %w", err)
	}

	p.Root = root
	p.Path = path
	p.Target = lfn.None[chainhash.Hash]()
	if _, ok := parsedTypes[ProofTargetType]; ok {
		p.Target = lfn.Some(chainhash.Hash(target))
	}

	return nil
}
