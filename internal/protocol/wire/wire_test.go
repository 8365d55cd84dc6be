package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/tg44/xmtp-js/internal/protocol/wire"
)

func TestBuilderWalk_RoundTrip(t *testing.T) {
	var b wire.Builder
	data := b.Bytes(1, []byte("abc")).Uint(2, 300).Bytes(3, nil).Bytes(4, []byte{}).Finish()

	var got []wire.Field
	err := wire.Walk(data, func(f wire.Field) error {
		got = append(got, f)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, protowire.Number(1), got[0].Num)
	require.Equal(t, []byte("abc"), got[0].Bytes)
	require.Equal(t, uint64(300), got[1].Varint)
	require.Equal(t, protowire.Number(4), got[2].Num)
	require.Empty(t, got[2].Bytes)
}

func TestWalk_SkipsUnknownWireTypes(t *testing.T) {
	data := protowire.AppendTag(nil, 9, protowire.Fixed32Type)
	data = protowire.AppendFixed32(data, 7)
	data = protowire.AppendTag(data, 1, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte("x"))

	var nums []protowire.Number
	require.NoError(t, wire.Walk(data, func(f wire.Field) error {
		nums = append(nums, f.Num)
		return nil
	}))
	require.Equal(t, []protowire.Number{1}, nums)
}

func TestWalk_RejectsTruncated(t *testing.T) {
	var b wire.Builder
	data := b.Bytes(1, []byte("hello world")).Finish()

	for i := 1; i < len(data); i++ {
		err := wire.Walk(data[:i], func(wire.Field) error { return nil })
		require.ErrorIs(t, err, wire.ErrMalformed, "prefix %d", i)
	}
}
