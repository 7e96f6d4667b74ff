package chunker

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockCount(t *testing.T) {
	require.Equal(t, 3, BlockCount(30, 10))
	require.Equal(t, 2, BlockCount(25, 10), "trailing partial block is dropped")
	require.Equal(t, 0, BlockCount(5, 10))
	require.Equal(t, 0, BlockCount(30, 0), "non-positive s yields zero blocks")
}

func TestByte_Addressing(t *testing.T) {
	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i)
	}
	src := NewSource(bytes.NewReader(data), int64(len(data)))

	b, err := Byte(src, 10, 2, 5)
	require.NoError(t, err)
	require.Equal(t, byte(25), b, "block 2, offset 5 -> absolute offset 25")

	b, err = Byte(src, 10, 0, 0)
	require.NoError(t, err)
	require.Equal(t, byte(0), b)
}

func TestByte_OutOfRange(t *testing.T) {
	data := make([]byte, 20)
	src := NewSource(bytes.NewReader(data), int64(len(data)))

	_, err := Byte(src, 10, 5, 0)
	require.Error(t, err, "block 5 at s=10 starts past the 20-byte source")
}
