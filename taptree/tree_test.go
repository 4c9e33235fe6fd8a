package taptree

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/lightninglabs/tapkit/errkind"
	"github.com/lightninglabs/tapkit/internal/test"
	"github.com/lightninglabs/tapkit/script"
	lfn "github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	noTarget = lfn.None[chainhash.Hash]()

	genHash = rapid.Custom(func(t *rapid.T) chainhash.Hash {
		b := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "hash")
		var h chainhash.Hash
		copy(h[:], b)
		return h
	})
)

// sortedPair returns the two hashes in ascending order.
func sortedPair(a, b chainhash.Hash) (chainhash.Hash, chainhash.Hash) {
	if bytes.Compare(b[:], a[:]) < 0 {
		return b, a
	}
	return a, b
}

// TestLeafHash makes sure leaf hashes match btcd for scripts carrying their
// compact size prefix.
func TestLeafHash(t *testing.T) {
	t.Parallel()

	words := script.Words{
		script.Data(test.RandBytes(32)), script.Op("OP_CHECKSIG"),
	}
	rawScript, err := script.EncodeWords(words)
	require.NoError(t, err)

	leaf := txscript.NewBaseTapLeaf(rawScript)
	expected := leaf.TapHash()

	leafHash, err := TapLeafHash(words, txscript.BaseLeafVersion)
	require.NoError(t, err)
	require.Equal(t, expected, leafHash)

	prefixed, err := script.EncodeScript(script.Raw(rawScript), true)
	require.NoError(t, err)
	require.Equal(t, expected, LeafHash(prefixed, txscript.BaseLeafVersion))

	// The low bit of the version is ignored.
	require.Equal(t, expected, LeafHash(prefixed, 0xc1))
	require.NotEqual(t, expected, LeafHash(prefixed, 0xc2))

	_, err = TapLeafHash(script.RawHex("xx"), txscript.BaseLeafVersion)
	require.ErrorIs(t, err, script.ErrInvalidHex)
}

// TestBranchHashCommutative checks that sibling order doesn't matter.
func TestBranchHashCommutative(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		a := genHash.Draw(t, "a")
		b := genHash.Draw(t, "b")

		require.Equal(t, BranchHash(a, b), BranchHash(b, a))

		// It must also agree with btcd.
		branch := txscript.NewTapBranch(
			txscript.NewTapLeaf(0xc0, a[:]), txscript.NewTapLeaf(
				0xc0, b[:],
			),
		)
		left := txscript.NewTapLeaf(0xc0, a[:]).TapHash()
		right := txscript.NewTapLeaf(0xc0, b[:]).TapHash()
		require.Equal(t, branch.TapHash(), BranchHash(left, right))
	})
}

// TestMerkleizeOddLevel checks that a level with an odd number of hashes is
// padded by repeating the last sorted hash.
func TestMerkleizeOddLevel(t *testing.T) {
	t.Parallel()

	a := test.RandHash()
	b := test.RandHash()
	c := test.RandHash()

	level := []chainhash.Hash{a, b, c}
	compare := func(i, j int) bool {
		return bytes.Compare(level[i][:], level[j][:]) < 0
	}
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			if compare(j, i) {
				level[i], level[j] = level[j], level[i]
			}
		}
	}

	first := BranchHash(level[0], level[1])
	second := BranchHash(level[2], level[2])
	expectedRoot := BranchHash(first, second)

	proof, err := Merkleize(Leaves(a, b, c), lfn.Some(c))
	require.NoError(t, err)
	require.Equal(t, expectedRoot, proof.Root)
	require.True(t, proof.Found())
	require.True(t, proof.Verify(c))
	require.Len(t, proof.Path, 2)

	root, err := Root(Leaves(c, a, b))
	require.NoError(t, err)
	require.Equal(t, expectedRoot, root)
}

// TestMerkleizeSingleLeaf checks that a single leaf is its own root.
func TestMerkleizeSingleLeaf(t *testing.T) {
	t.Parallel()

	a := test.RandHash()
	proof, err := Merkleize(Leaves(a), lfn.Some(a))
	require.NoError(t, err)
	require.Equal(t, a, proof.Root)
	require.Empty(t, proof.Path)
	require.True(t, proof.Found())
	require.True(t, proof.Verify(a))

	// A nested single leaf collapses as well.
	root, err := Root(Branch{Branch{Leaf(a)}})
	require.NoError(t, err)
	require.Equal(t, a, root)
}

// TestMerkleizeNested checks a tree with sub-trees against the tree btcd
// assembles for the same leaves.
func TestMerkleizeNested(t *testing.T) {
	t.Parallel()

	leaves := make([]txscript.TapLeaf, 4)
	hashes := make([]chainhash.Hash, 4)
	for i := range leaves {
		leaves[i] = txscript.NewBaseTapLeaf(test.RandBytes(10 + i))
		hashes[i] = leaves[i].TapHash()
	}

	tree := Branch{
		Leaves(hashes[0], hashes[1]),
		Leaves(hashes[2], hashes[3]),
	}

	btcdTree := txscript.AssembleTaprootScriptTree(leaves...)
	expectedRoot := btcdTree.RootNode.TapHash()

	for i, target := range hashes {
		proof, err := Merkleize(tree, lfn.Some(target))
		require.NoError(t, err)
		require.Equal(t, expectedRoot, proof.Root)
		require.True(t, proof.Found())
		require.True(t, proof.Verify(target))

		// The path must match the inclusion proof btcd computes.
		idx := btcdTree.LeafProofIndex[target]
		btcdProof := btcdTree.LeafMerkleProofs[idx]
		require.Equal(t, btcdProof.InclusionProof,
			proof.InclusionProof(), "leaf %d", i)
	}
}

// TestMerkleizeTargetNotFound checks a target that is not in the tree.
func TestMerkleizeTargetNotFound(t *testing.T) {
	t.Parallel()

	a, b, missing := test.RandHash(), test.RandHash(), test.RandHash()

	proof, err := Merkleize(Leaves(a, b), lfn.Some(missing))
	require.NoError(t, err)
	require.False(t, proof.Found())
	require.Empty(t, proof.Path)
	require.Equal(t, lfn.Some(missing), proof.Target)

	_, err = proof.ControlBlock(test.RandPubKey(t), txscript.BaseLeafVersion)
	require.ErrorIs(t, err, ErrTargetNotFound)

	proof, err = Merkleize(Leaves(a, b), noTarget)
	require.NoError(t, err)
	require.False(t, proof.Found())
	require.Equal(t, BranchHash(a, b), proof.Root)
}

// TestMerkleizeEmpty checks that empty trees are rejected.
func TestMerkleizeEmpty(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		tree Branch
	}{{
		name: "nil tree",
		tree: nil,
	}, {
		name: "empty tree",
		tree: Branch{},
	}, {
		name: "empty sub-tree",
		tree: Branch{Leaf(test.RandHash()), Branch{}},
	}, {
		name: "nil node",
		tree: Branch{Leaf(test.RandHash()), nil},
	}}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(tt *testing.T) {
			tt.Parallel()

			_, err := Merkleize(tc.tree, noTarget)
			require.Error(tt, err)
			require.ErrorIs(tt, err, errkind.Format)
		})
	}
}

// genTree draws a random tree of bounded depth, collecting all of its leaves.
func genTree(t *rapid.T, depth int, leaves *[]chainhash.Hash) Branch {
	size := rapid.IntRange(1, 4).Draw(t, "size")
	tree := make(Branch, size)
	for i := range tree {
		if depth > 0 && rapid.Bool().Draw(t, "nested") {
			tree[i] = genTree(t, depth-1, leaves)
			continue
		}

		h := genHash.Draw(t, "leaf")
		*leaves = append(*leaves, h)
		tree[i] = Leaf(h)
	}

	return tree
}

// TestProofProperty checks that the proof of every leaf verifies against the
// root of the tree.
func TestProofProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		var leaves []chainhash.Hash
		tree := genTree(t, 3, &leaves)

		root, err := Root(tree)
		require.NoError(t, err)

		target := rapid.SampledFrom(leaves).Draw(t, "target")
		proof, err := Merkleize(tree, lfn.Some(target))
		require.NoError(t, err)
		require.Equal(t, root, proof.Root)
		require.True(t, proof.Verify(target))
		require.True(t, proof.Found())
	})
}

// TestControlBlock checks that control blocks built from a proof commit to
// the output key.
func TestControlBlock(t *testing.T) {
	t.Parallel()

	internalKey := test.RandPubKey(t)

	scripts := make([][]byte, 3)
	hashes := make([]chainhash.Hash, 3)
	for i := range scripts {
		scripts[i] = test.RandBytes(20 + i)
		hashes[i] = txscript.NewBaseTapLeaf(scripts[i]).TapHash()
	}
	tree := Branch{Leaf(hashes[0]), Leaves(hashes[1], hashes[2])}

	for i, target := range hashes {
		proof, err := Merkleize(tree, lfn.Some(target))
		require.NoError(t, err)

		ctrlBlock, err := proof.ControlBlock(
			internalKey, txscript.BaseLeafVersion,
		)
		require.NoError(t, err)

		outputKey := OutputKey(internalKey, proof.Root)
		err = txscript.VerifyTaprootLeafCommitment(
			ctrlBlock, schnorr.SerializePubKey(outputKey),
			scripts[i],
		)
		require.NoError(t, err, "leaf %d", i)

		// The control block must survive serialization.
		ctrlBytes, err := ctrlBlock.ToBytes()
		require.NoError(t, err)
		parsed, err := txscript.ParseControlBlock(ctrlBytes)
		require.NoError(t, err)
		require.Equal(t, ctrlBlock.InclusionProof, parsed.InclusionProof)
	}
}
