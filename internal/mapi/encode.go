package mapi

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
)

// 属性值的字节编码。所有多字节整数一律小端序，
// 字符串叶子不带 NUL 终止符（定长属性流里的长度计入终止符，
// 见 propstream.go）。

var utf16leEncoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeUnicode 将字符串编码为 UTF-16LE 字节序列（PtypString）。
func EncodeUnicode(s string) []byte {
	encoded, err := utf16leEncoder.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// UTF-16 可以表示任意合法 UTF-8 输入，此处不可达
		panic("mapi: utf-16 encode: " + err.Error())
	}
	return encoded
}

// EncodeString8 将字符串编码为 8 位代码页字节序列（PtypString8）。
func EncodeString8(s string) []byte {
	return []byte(s)
}

// EncodeInt16 编码 16 位整数（PtypInteger16）。
func EncodeInt16(v int16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(v))
	return buf
}

// EncodeInt32 编码 32 位整数（PtypInteger32）。
func EncodeInt32(v int32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return buf
}

// EncodeInt64 编码 64 位整数（PtypInteger64）。
func EncodeInt64(v int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(v))
	return buf
}

// EncodeBool 编码布尔值（PtypBoolean，单字节）。
func EncodeBool(v bool) []byte {
	if v {
		return []byte{0x01}
	}
	return []byte{0x00}
}

// filetimeEpochOffset FILETIME 纪元（1601-01-01 UTC）到 Unix 纪元的秒数。
// 不能用 time.Time.Sub 换算：425 年的间隔超出 time.Duration 的表示范围。
const filetimeEpochOffset = 11644473600

// FiletimeTicks 将时间换算为 FILETIME 计数
// （自 1601-01-01 UTC 起的 100 纳秒数）。
func FiletimeTicks(t time.Time) uint64 {
	seconds := t.Unix() + filetimeEpochOffset
	return uint64(seconds)*10_000_000 + uint64(t.Nanosecond())/100
}

// TimeFromFiletime 从 FILETIME 计数还原时间（UTC）。
func TimeFromFiletime(ticks uint64) time.Time {
	seconds := int64(ticks/10_000_000) - filetimeEpochOffset
	nanos := int64(ticks%10_000_000) * 100
	return time.Unix(seconds, nanos).UTC()
}

// EncodeTime 编码系统时间（PtypTime，8 字节 FILETIME）。
func EncodeTime(t time.Time) []byte {
	return EncodeInt64(int64(FiletimeTicks(t)))
}

// EncodeGUID 编码 16 字节类标识符（PtypGUID）。
func EncodeGUID(id uuid.UUID) []byte {
	buf := make([]byte, 16)
	copy(buf, id[:])
	return buf
}
