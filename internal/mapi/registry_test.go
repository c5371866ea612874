package mapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKnownTags(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		expected PropertyTag
	}{
		{"Subject ansi", "PR_SUBJECT", PropertyTag{0x0037, PtypString8}},
		{"Subject unicode", "PR_SUBJECT_UNICODE", PropertyTag{0x0037, PtypString}},
		{"Message class", "PR_MESSAGE_CLASS_UNICODE", PropertyTag{0x001A, PtypString}},
		{"Display name", "PR_DISPLAY_NAME_UNICODE", PropertyTag{0x3001, PtypString}},
		{"Attach data", "PR_ATTACH_DATA_BIN", PropertyTag{0x3701, PtypBinary}},
		{"Attach data object", "PR_ATTACH_DATA_OBJ", PropertyTag{0x3701, PtypObject}},
		{"Attach long filename", "PR_ATTACH_LONG_FILENAME_UNICODE", PropertyTag{0x3707, PtypString}},
		{"Message flags", "PR_MESSAGE_FLAGS", PropertyTag{0x0E07, PtypInteger32}},
		{"Client submit time", "PR_CLIENT_SUBMIT_TIME", PropertyTag{0x0039, PtypTime}},
		{"Hasattach", "PR_HASATTACH", PropertyTag{0x0E1B, PtypBoolean}},
		{"Recipient type", "PR_RECIPIENT_TYPE", PropertyTag{0x0C15, PtypInteger32}},
		{"Smtp address", "PR_SMTP_ADDRESS_UNICODE", PropertyTag{0x39FE, PtypString}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Lookup(tt.symbol))
		})
	}
}

func TestLookupDeterministic(t *testing.T) {
	for _, name := range Names() {
		first := Lookup(name)
		second := Lookup(name)
		assert.Equal(t, first, second, "lookup of %s must be stable", name)
	}
}

func TestLookupUnknownPanics(t *testing.T) {
	assert.Panics(t, func() {
		Lookup("PR_DOES_NOT_EXIST")
	})
}

func TestAnsiUnicodePairsShareID(t *testing.T) {
	// 每个字符串属性的 ANSI/Unicode 变体共享 ID，只在类型上不同
	for _, name := range Names() {
		tag := Lookup(name)
		if tag.Type != PtypString8 {
			continue
		}
		unicode := Lookup(name + "_UNICODE")
		assert.True(t, tag.SameField(unicode), "%s pair must share id", name)
		assert.Equal(t, PtypString, unicode.Type)
	}
}

func TestTagValueEquality(t *testing.T) {
	// 相等的 (ID, 类型) 对必须在 == 与 map 键下相等
	a := Lookup("PR_SUBJECT_UNICODE")
	b := PropertyTag{ID: 0x0037, Type: PtypString}
	assert.True(t, a == b)

	seen := map[PropertyTag]int{a: 1}
	assert.Equal(t, 1, seen[b])
}

func TestRawTagValue(t *testing.T) {
	assert.Equal(t, uint32(0x0037001F), Lookup("PR_SUBJECT_UNICODE").Raw())
	assert.Equal(t, uint32(0x37010102), Lookup("PR_ATTACH_DATA_BIN").Raw())
}
