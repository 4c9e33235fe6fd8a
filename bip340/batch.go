package bip340

import (
	"context"
	"fmt"

	"github.com/lightninglabs/tapkit/fn"
)

// Request bundles the inputs of a single signature verification.
type Request struct {
	// Sig is the serialized signature.
	Sig []byte

	// Msg is the signed message.
	Msg []byte

	// PubKey is the x-only or SEC encoded public key.
	PubKey []byte
}

// VerifyBatch verifies each request independently and concurrently, returning
// one result per request in input order. If strict is true, the first failing
// check of any request aborts the batch with an error naming the request
// index.
func VerifyBatch(ctx context.Context, reqs []Request,
	strict bool) ([]bool, error) {

	type indexed struct {
		idx int
		req Request
	}
	items := make([]indexed, len(reqs))
	for i, req := range reqs {
		items[i] = indexed{idx: i, req: req}
	}

	results, err := fn.ParMap(
		ctx, items, func(ctx context.Context, item indexed) (bool,
			error) {

			if err := ctx.Err(); err != nil {
				return false, err
			}

			valid, err := Verify(
				item.req.Sig, item.req.Msg, item.req.PubKey,
				strict,
			)
			if err != nil {
				return false, fmt.Errorf("request %d: %w",
					item.idx, err)
			}

			return valid, nil
		},
	)
	if err != nil {
		return nil, err
	}

	log.Debugf("Verified batch of %d signatures", len(reqs))

	return results, nil
}
