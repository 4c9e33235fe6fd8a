// Package taphash implements the domain separated "tagged hash" construction
// used by BIP340 signatures and BIP341 script trees:
//
//	SHA256(SHA256(tag) || SHA256(tag) || data)
package taphash

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Tags used by the tapkit packages. The BIP340/341 tags have pre-computed
// midstates inside chainhash, so hashing with them skips the two tag
// digests.
const (
	// TagTapLeaf is the tag used to hash a tapscript leaf.
	TagTapLeaf = "TapLeaf"

	// TagTapBranch is the tag used to hash two sorted child nodes of a
	// tapscript tree.
	TagTapBranch = "TapBranch"

	// TagTapTweak is the tag used to derive the taproot output key tweak.
	TagTapTweak = "TapTweak"

	// TagAux is the tag used to hash the auxiliary signing randomness.
	TagAux = "BIP0340/aux"

	// TagNonce is the tag used to derive the signing nonce.
	TagNonce = "BIP0340/nonce"

	// TagChallenge is the tag used to derive the signature challenge.
	TagChallenge = "BIP0340/challenge"
)

// Hash returns the tagged hash of the concatenation of all parts under the
// given tag.
func Hash(tag string, parts ...[]byte) chainhash.Hash {
	return *chainhash.TaggedHash([]byte(tag), parts...)
}
