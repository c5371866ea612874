package mapi

import "fmt"

// PropertyTag 表示一个属性的 (标识符, 类型) 对。
//
// 同一语义字段的 ANSI 与 Unicode 变体共享同一个 ID，只在 Type 上
// 不同。PropertyTag 是可比较的值对象：相等的 (ID, Type) 对在 ==
// 比较和 map 键哈希下相等，构造后不再修改。
type PropertyTag struct {
	ID   uint16
	Type PropertyType
}

// Raw 返回 32 位组合标签值（ID 在高 16 位，类型码在低 16 位），
// 即 __properties_version1.0 流条目中使用的形式。
func (t PropertyTag) Raw() uint32 {
	return uint32(t.ID)<<16 | uint32(t.Type.Code())
}

// SameField 报告两个标签是否指向同一语义字段（只比较 ID，
// 用于识别 ANSI/Unicode 变体对）。
func (t PropertyTag) SameField(other PropertyTag) bool {
	return t.ID == other.ID
}

// String 返回 "0xIIIITTTT" 形式的调试表示。
func (t PropertyTag) String() string {
	return fmt.Sprintf("0x%04X%04X", t.ID, t.Type.Code())
}
