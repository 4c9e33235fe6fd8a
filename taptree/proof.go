package taptree

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/lightninglabs/tapkit/errkind"
	"github.com/lightninglabs/tapkit/fn"
	lfn "github.com/lightningnetwork/lnd/fn/v2"
)

// ErrTargetNotFound is returned when a proof is used for a leaf that wasn't
// found in the tree.
var ErrTargetNotFound = errkind.New(
	errkind.Format, "target leaf not found in tree",
)

// Proof is the result of merkleizing a tree.
type Proof struct {
	// Root is the root hash of the tree.
	Root chainhash.Hash

	// Target is the requested target after refinement. If the target
	// was found in the tree it equals Root, otherwise it is the target
	// that was passed in.
	Target lfn.Option[chainhash.Hash]

	// Path holds the sibling hashes from the target leaf up to the root.
	Path []chainhash.Hash
}

// Found returns true if the proof was created for a target leaf that is
// part of the tree.
func (p *Proof) Found() bool {
	return p.Target.IsSome() &&
		p.Target.UnwrapOr(chainhash.Hash{}) == p.Root
}

// Verify folds the path into the passed leaf hash and returns true if the
// result equals the root.
func (p *Proof) Verify(leaf chainhash.Hash) bool {
	return fn.Reduce(p.Path, leaf, BranchHash) == p.Root
}

// InclusionProof returns the path as the concatenation of its hashes, the
// form used in a control block.
func (p *Proof) InclusionProof() []byte {
	proof := make([]byte, 0, len(p.Path)*chainhash.HashSize)
	for _, h := range p.Path {
		proof = append(proof, h[:]...)
	}

	return proof
}

// OutputKey returns the taproot output key that commits to the internal key
// and the tree root.
func OutputKey(internalKey *btcec.PublicKey,
	root chainhash.Hash) *btcec.PublicKey {

	return txscript.ComputeTaprootOutputKey(internalKey, root[:])
}

// ControlBlock returns the control block needed to spend the proof's target
// leaf through the script path of the output committing to the tree.
func (p *Proof) ControlBlock(internalKey *btcec.PublicKey,
	leafVersion txscript.TapscriptLeafVersion) (*txscript.ControlBlock,
	error) {

	if !p.Found() {
		return nil, ErrTargetNotFound
	}

	outputKey := OutputKey(internalKey, p.Root)
	yIsOdd := outputKey.SerializeCompressed()[0] ==
		secp256k1.PubKeyFormatCompressedOdd

	return &txscript.ControlBlock{
		InternalKey:     internalKey,
		OutputKeyYIsOdd: yIsOdd,
		LeafVersion:     leafVersion,
		InclusionProof:  p.InclusionProof(),
	}, nil
}
