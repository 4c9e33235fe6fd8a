package errkind

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	errTooBig := New(Size, "too big")
	wrapped := fmt.Errorf("unable to encode: %w", errTooBig)

	require.ErrorIs(t, wrapped, Size)
	require.ErrorIs(t, wrapped, errTooBig)
	require.Equal(t, Size, Of(wrapped))
	require.Equal(t, "size error: too big", errTooBig.Error())

	cause := errors.New("bad checksum")
	withCause := Errorf(Format, "invalid address: %w", cause)
	require.ErrorIs(t, withCause, Format)
	require.ErrorIs(t, withCause, cause)
	require.Equal(t, Format, Of(withCause))

	require.Nil(t, Of(errors.New("unrelated")))
	require.Nil(t, Of(nil))
}
