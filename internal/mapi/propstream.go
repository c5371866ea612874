package mapi

import (
	"encoding/binary"
	"time"
)

// __properties_version1.0 定长属性流。
//
// 流由头部加若干 16 字节条目组成。定长类型的值直接内联在条目里；
// 变长类型（字符串、二进制）的值存放在独立的 substg 叶子中，条目
// 只声明字节数——字符串的声明长度计入 NUL 终止符（Unicode +2，
// 8 位串 +1），叶子本身不写终止符。
//
// 头部布局：
//   顶层消息：8 字节保留 + 下一个收件人 ID(4) + 下一个附件 ID(4)
//             + 收件人数(4) + 附件数(4) + 8 字节保留，共 32 字节
//   收件人/附件容器：8 字节保留

// propertyFlagsReadWrite PROPATTR_READABLE | PROPATTR_WRITEABLE。
const propertyFlagsReadWrite = 0x00000006

type propertyEntry struct {
	tag   PropertyTag
	flags uint32
	value [8]byte
}

// PropertyStream 按追加顺序累积属性条目并产出流字节。
type PropertyStream struct {
	entries []propertyEntry
}

func (ps *PropertyStream) append(tag PropertyTag, value [8]byte) {
	ps.entries = append(ps.entries, propertyEntry{
		tag:   tag,
		flags: propertyFlagsReadWrite,
		value: value,
	})
}

// AddInt32 追加一个 32 位整数属性。
func (ps *PropertyStream) AddInt32(tag PropertyTag, v int32) {
	var value [8]byte
	binary.LittleEndian.PutUint32(value[:4], uint32(v))
	ps.append(tag, value)
}

// AddInt64 追加一个 64 位整数属性。
func (ps *PropertyStream) AddInt64(tag PropertyTag, v int64) {
	var value [8]byte
	binary.LittleEndian.PutUint64(value[:], uint64(v))
	ps.append(tag, value)
}

// AddBool 追加一个布尔属性。
func (ps *PropertyStream) AddBool(tag PropertyTag, v bool) {
	var value [8]byte
	if v {
		value[0] = 0x01
	}
	ps.append(tag, value)
}

// AddTime 追加一个系统时间属性（FILETIME）。
func (ps *PropertyStream) AddTime(tag PropertyTag, t time.Time) {
	var value [8]byte
	binary.LittleEndian.PutUint64(value[:], FiletimeTicks(t))
	ps.append(tag, value)
}

// AddStream 追加一个变长属性条目，data 是对应 substg 叶子的内容。
// 条目声明的字节数按类型计入字符串终止符。
func (ps *PropertyStream) AddStream(tag PropertyTag, data []byte) {
	size := uint32(len(data))
	switch tag.Type {
	case PtypString:
		size += 2
	case PtypString8:
		size++
	}
	var value [8]byte
	binary.LittleEndian.PutUint32(value[:4], size)
	ps.append(tag, value)
}

// Len 返回已追加的条目数。
func (ps *PropertyStream) Len() int {
	return len(ps.entries)
}

// MessageBytes 产出顶层消息容器的属性流（32 字节头）。
func (ps *PropertyStream) MessageBytes(nextRecipientID, nextAttachmentID, recipientCount, attachmentCount uint32) []byte {
	buf := make([]byte, 32, 32+16*len(ps.entries))
	binary.LittleEndian.PutUint32(buf[8:12], nextRecipientID)
	binary.LittleEndian.PutUint32(buf[12:16], nextAttachmentID)
	binary.LittleEndian.PutUint32(buf[16:20], recipientCount)
	binary.LittleEndian.PutUint32(buf[20:24], attachmentCount)
	return ps.appendEntries(buf)
}

// StorageBytes 产出收件人/附件容器的属性流（8 字节头）。
func (ps *PropertyStream) StorageBytes() []byte {
	buf := make([]byte, 8, 8+16*len(ps.entries))
	return ps.appendEntries(buf)
}

func (ps *PropertyStream) appendEntries(buf []byte) []byte {
	var entry [16]byte
	for _, e := range ps.entries {
		binary.LittleEndian.PutUint32(entry[0:4], e.tag.Raw())
		binary.LittleEndian.PutUint32(entry[4:8], e.flags)
		copy(entry[8:], e.value[:])
		buf = append(buf, entry[:]...)
	}
	return buf
}
