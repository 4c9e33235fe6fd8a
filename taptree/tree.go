// Package taptree builds BIP341 tapscript trees from nested lists of leaf
// hashes and extracts the inclusion proof of a single leaf.
package taptree

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/lightninglabs/tapkit/errkind"
	"github.com/lightninglabs/tapkit/fn"
	"github.com/lightninglabs/tapkit/script"
	"github.com/lightninglabs/tapkit/taphash"
	lfn "github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/exp/slices"
)

var (
	// ErrEmptyTree is returned when a tree, or one of its sub-trees, has
	// no elements.
	ErrEmptyTree = errkind.New(errkind.Format, "tree has no leaves")

	// ErrUnknownNode is returned for a Node implementation that is
	// neither a Leaf nor a Branch.
	ErrUnknownNode = errkind.New(errkind.Format, "unknown tree node")
)

// Node is an element of a tree: either a leaf hash or a nested sub-tree.
type Node interface {
	isNode()
}

// Leaf is the hash of a single tapscript leaf.
type Leaf chainhash.Hash

// Branch is an ordered list of nodes that are merkleized together.
type Branch []Node

func (Leaf) isNode()   {}
func (Branch) isNode() {}

// Leaves returns a flat branch of the passed leaf hashes.
func Leaves(hashes ...chainhash.Hash) Branch {
	return fn.Map(hashes, func(h chainhash.Hash) Node {
		return Leaf(h)
	})
}

// LeafHash returns the tagged hash of a leaf script under the given leaf
// version. The low bit of the version is cleared. The script is hashed as
// given, so a BIP341 leaf must carry its compact size prefix.
func LeafHash(leafScript []byte,
	version txscript.TapscriptLeafVersion) chainhash.Hash {

	return taphash.Hash(
		taphash.TagTapLeaf, []byte{byte(version) & 0xfe}, leafScript,
	)
}

// TapLeafHash encodes the script with its compact size prefix and returns
// its leaf hash.
func TapLeafHash(src script.Source,
	version txscript.TapscriptLeafVersion) (chainhash.Hash, error) {

	leafScript, err := script.EncodeScript(src, true)
	if err != nil {
		return chainhash.Hash{}, err
	}

	return LeafHash(leafScript, version), nil
}

// BranchHash returns the hash of two sibling nodes. The inputs are sorted
// first, so the result doesn't depend on their order.
func BranchHash(a, b chainhash.Hash) chainhash.Hash {
	if bytes.Compare(b[:], a[:]) < 0 {
		a, b = b, a
	}

	return taphash.Hash(taphash.TagTapBranch, a[:], b[:])
}

func compareHash(a, b chainhash.Hash) int {
	return bytes.Compare(a[:], b[:])
}

// Merkleize computes the root of the tree. If a target leaf is given, the
// returned proof also carries the sibling hashes that lead from the target
// to the root.
//
// Sub-trees are resolved first, depth first and left to right. Each level
// is then sorted, padded to an even length by repeating its last element,
// and hashed pairwise until a single hash remains.
func Merkleize(tree Branch, target lfn.Option[chainhash.Hash]) (*Proof,
	error) {

	root, target, path, err := merkleize(tree, target)
	if err != nil {
		return nil, err
	}

	log.Tracef("Merkleized tree of %d nodes into root %x, path length %d",
		len(tree), root[:], len(path))

	return &Proof{
		Root:   root,
		Target: target,
		Path:   path,
	}, nil
}

// merkleize returns the root of the tree, the refined target and the path
// collected for it. The path is owned by the caller.
func merkleize(tree Branch, target lfn.Option[chainhash.Hash]) (chainhash.Hash,
	lfn.Option[chainhash.Hash], []chainhash.Hash, error) {

	var (
		path  []chainhash.Hash
		level = make([]chainhash.Hash, 0, len(tree))
	)
	for i, node := range tree {
		switch n := node.(type) {
		case Leaf:
			level = append(level, chainhash.Hash(n))

		case Branch:
			subRoot, subTarget, subPath, err := merkleize(n, target)
			if err != nil {
				return chainhash.Hash{}, target, nil,
					fmt.Errorf("node %d: %w", i, err)
			}

			target = subTarget
			level = append(level, subRoot)
			path = append(path, subPath...)

		default:
			return chainhash.Hash{}, target, nil,
				fmt.Errorf("%w: %T", ErrUnknownNode, node)
		}
	}

	if len(level) == 0 {
		return chainhash.Hash{}, target, nil, ErrEmptyTree
	}

	for len(level) > 1 {
		slices.SortFunc(level, compareHash)
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}

		next := make([]chainhash.Hash, 0, len(level)/2)
		for i := 0; i < len(level)-1; i += 2 {
			left, right := level[i], level[i+1]
			branch := BranchHash(left, right)
			next = append(next, branch)

			if !target.IsSome() {
				continue
			}

			switch target.UnwrapOr(chainhash.Hash{}) {
			case left:
				path = append(path, right)
				target = lfn.Some(branch)

			case right:
				path = append(path, left)
				target = lfn.Some(branch)
			}
		}

		level = next
	}

	return level[0], target, path, nil
}

// Root returns the root hash of the tree.
func Root(tree Branch) (chainhash.Hash, error) {
	proof, err := Merkleize(tree, lfn.None[chainhash.Hash]())
	if err != nil {
		return chainhash.Hash{}, err
	}

	return proof.Root, nil
}
