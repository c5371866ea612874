package mapi

import (
	"fmt"
	"strconv"
	"strings"
)

// 子节点命名规则。叶子与容器的名字是磁盘格式契约：读取方按名字
// 反解 (ID, 类型) 与附件序号，大小写和位宽都不允许偏差。
const (
	// StreamPrefix 属性叶子节点名前缀。
	StreamPrefix = "__substg1.0_"
	// AttachmentPrefix 附件子容器名前缀。
	AttachmentPrefix = "__attach_version1.0_#"
	// RecipientPrefix 收件人子容器名前缀。
	RecipientPrefix = "__recip_version1.0_#"
	// PropertiesStreamName 定长属性流的叶子名。
	PropertiesStreamName = "__properties_version1.0"
)

// StreamName 返回属性叶子节点的名字：
// 前缀 + 4 位大写十六进制 ID + 4 位大写十六进制类型码。
func StreamName(tag PropertyTag) string {
	return fmt.Sprintf("%s%04X%04X", StreamPrefix, tag.ID, tag.Type.Code())
}

// AttachmentStorageName 返回第 index 个附件容器的名字：
// 前缀 + 8 位零填充十进制序号。序号从 0 开始，按集合插入顺序递增。
func AttachmentStorageName(index int) string {
	return fmt.Sprintf("%s%08d", AttachmentPrefix, index)
}

// RecipientStorageName 返回第 index 个收件人容器的名字。
func RecipientStorageName(index int) string {
	return fmt.Sprintf("%s%08d", RecipientPrefix, index)
}

// ParseStreamName 从属性叶子名反解出属性标签。
// 名字不符合命名规则时返回错误。
func ParseStreamName(name string) (PropertyTag, error) {
	if !strings.HasPrefix(name, StreamPrefix) {
		return PropertyTag{}, fmt.Errorf("mapi: not a property stream name: %q", name)
	}
	hexPart := name[len(StreamPrefix):]
	if len(hexPart) != 8 {
		return PropertyTag{}, fmt.Errorf("mapi: malformed property stream name: %q", name)
	}
	if hexPart != strings.ToUpper(hexPart) {
		return PropertyTag{}, fmt.Errorf("mapi: property stream name must be uppercase: %q", name)
	}
	id, err := strconv.ParseUint(hexPart[:4], 16, 16)
	if err != nil {
		return PropertyTag{}, fmt.Errorf("mapi: invalid property id in %q: %w", name, err)
	}
	typ, err := strconv.ParseUint(hexPart[4:], 16, 16)
	if err != nil {
		return PropertyTag{}, fmt.Errorf("mapi: invalid property type in %q: %w", name, err)
	}
	return PropertyTag{ID: uint16(id), Type: PropertyType(typ)}, nil
}

// ParseStorageIndex 从附件或收件人容器名反解出序号。
func ParseStorageIndex(name string) (int, error) {
	var digits string
	switch {
	case strings.HasPrefix(name, AttachmentPrefix):
		digits = name[len(AttachmentPrefix):]
	case strings.HasPrefix(name, RecipientPrefix):
		digits = name[len(RecipientPrefix):]
	default:
		return 0, fmt.Errorf("mapi: not an indexed storage name: %q", name)
	}
	if len(digits) != 8 {
		return 0, fmt.Errorf("mapi: malformed storage index in %q", name)
	}
	index, err := strconv.Atoi(digits)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("mapi: invalid storage index in %q", name)
	}
	return index, nil
}
