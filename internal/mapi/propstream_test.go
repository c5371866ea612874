package mapi

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyStreamMessageHeader(t *testing.T) {
	var ps PropertyStream
	buf := ps.MessageBytes(2, 3, 2, 3)

	require.Len(t, buf, 32)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[8:12]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[16:20]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[20:24]))
}

func TestPropertyStreamStorageHeader(t *testing.T) {
	var ps PropertyStream
	ps.AddInt32(Lookup("PR_ATTACH_METHOD"), 1)

	buf := ps.StorageBytes()
	require.Len(t, buf, 8+16)

	// 条目：32 位组合标签（小端）、标志、内联值
	entry := buf[8:]
	assert.Equal(t, Lookup("PR_ATTACH_METHOD").Raw(), binary.LittleEndian.Uint32(entry[0:4]))
	assert.Equal(t, uint32(propertyFlagsReadWrite), binary.LittleEndian.Uint32(entry[4:8]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(entry[8:12]))
}

func TestPropertyStreamDeclaredSizes(t *testing.T) {
	tests := []struct {
		name     string
		tag      PropertyTag
		data     []byte
		expected uint32
	}{
		{"Unicode counts terminator", Lookup("PR_SUBJECT_UNICODE"), EncodeUnicode("Hi"), 6},
		{"String8 counts terminator", Lookup("PR_SUBJECT"), []byte("Hi"), 3},
		{"Binary exact", Lookup("PR_ATTACH_DATA_BIN"), []byte{1, 2, 3, 4}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ps PropertyStream
			ps.AddStream(tt.tag, tt.data)

			buf := ps.StorageBytes()
			require.Len(t, buf, 8+16)
			assert.Equal(t, tt.expected, binary.LittleEndian.Uint32(buf[16:20]))
		})
	}
}

func TestPropertyStreamEntryOrder(t *testing.T) {
	var ps PropertyStream
	ps.AddBool(Lookup("PR_HASATTACH"), true)
	ps.AddInt32(Lookup("PR_MESSAGE_FLAGS"), 8)

	assert.Equal(t, 2, ps.Len())

	buf := ps.StorageBytes()
	require.Len(t, buf, 8+2*16)
	assert.Equal(t, Lookup("PR_HASATTACH").Raw(), binary.LittleEndian.Uint32(buf[8:12]))
	assert.Equal(t, Lookup("PR_MESSAGE_FLAGS").Raw(), binary.LittleEndian.Uint32(buf[24:28]))
}
