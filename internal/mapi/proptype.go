package mapi

// PropertyType 表示属性值的 16 位线上类型码。
//
// 类型码是 [MS-OXCDATA] 规定的磁盘格式契约，每个变体的数值
// 永远不允许改变：读取方按照这些数值解析属性流和叶子节点名。
type PropertyType uint16

// 属性类型码（[MS-OXCDATA] §2.11.1）
const (
	PtypUnspecified  PropertyType = 0x0000 // 类型未指定
	PtypNull         PropertyType = 0x0001 // 空值
	PtypInteger16    PropertyType = 0x0002 // 16 位有符号整数
	PtypInteger32    PropertyType = 0x0003 // 32 位有符号整数
	PtypFloating32   PropertyType = 0x0004 // 32 位浮点数
	PtypFloating64   PropertyType = 0x0005 // 64 位浮点数
	PtypCurrency     PropertyType = 0x0006 // 64 位货币值（1/10000 单位）
	PtypFloatingTime PropertyType = 0x0007 // OLE 日期时间
	PtypErrorCode    PropertyType = 0x000A // 32 位错误码
	PtypBoolean      PropertyType = 0x000B // 布尔值（单字节）
	PtypObject       PropertyType = 0x000D // 嵌入对象标记
	PtypInteger64    PropertyType = 0x0014 // 64 位有符号整数
	PtypString8      PropertyType = 0x001E // 单值 8 位代码页字符串
	PtypString       PropertyType = 0x001F // 单值 UTF-16LE 字符串
	PtypTime         PropertyType = 0x0040 // FILETIME（1601-01-01 起的 100ns 计数）
	PtypGUID         PropertyType = 0x0048 // 16 字节类标识符
	PtypBinary       PropertyType = 0x0102 // 二进制数据

	// 多值变体：单值类型码加上多值标志位 0x1000。
	PtypMultipleInteger16 PropertyType = 0x1002
	PtypMultipleInteger32 PropertyType = 0x1003
	PtypMultipleInteger64 PropertyType = 0x1014
	PtypMultipleString8   PropertyType = 0x101E
	PtypMultipleString    PropertyType = 0x101F
	PtypMultipleGUID      PropertyType = 0x1048
	PtypMultipleBinary    PropertyType = 0x1102
)

// MultivalueFlag 多值类型标志位。
const MultivalueFlag PropertyType = 0x1000

// Code 返回类型的 16 位数值码。
func (t PropertyType) Code() uint16 {
	return uint16(t)
}

// IsMultivalue 报告该类型是否为多值变体。
func (t PropertyType) IsMultivalue() bool {
	return t&MultivalueFlag != 0
}

// IsFixedLength 报告该类型的值是否以固定长度内联存储。
// 固定长度值直接写入属性流条目；变长值（字符串、二进制、多值）
// 存放在独立的叶子节点中，条目里只记录长度。
func (t PropertyType) IsFixedLength() bool {
	switch t {
	case PtypInteger16, PtypInteger32, PtypFloating32, PtypFloating64,
		PtypCurrency, PtypFloatingTime, PtypErrorCode, PtypBoolean,
		PtypInteger64, PtypTime:
		return true
	}
	return false
}

// String 返回类型的符号名，用于日志与调试输出。
func (t PropertyType) String() string {
	if name, ok := propertyTypeNames[t]; ok {
		return name
	}
	return "PtypUnknown"
}

var propertyTypeNames = map[PropertyType]string{
	PtypUnspecified:       "PtypUnspecified",
	PtypNull:              "PtypNull",
	PtypInteger16:         "PtypInteger16",
	PtypInteger32:         "PtypInteger32",
	PtypFloating32:        "PtypFloating32",
	PtypFloating64:        "PtypFloating64",
	PtypCurrency:          "PtypCurrency",
	PtypFloatingTime:      "PtypFloatingTime",
	PtypErrorCode:         "PtypErrorCode",
	PtypBoolean:           "PtypBoolean",
	PtypObject:            "PtypObject",
	PtypInteger64:         "PtypInteger64",
	PtypString8:           "PtypString8",
	PtypString:            "PtypString",
	PtypTime:              "PtypTime",
	PtypGUID:              "PtypGUID",
	PtypBinary:            "PtypBinary",
	PtypMultipleInteger16: "PtypMultipleInteger16",
	PtypMultipleInteger32: "PtypMultipleInteger32",
	PtypMultipleInteger64: "PtypMultipleInteger64",
	PtypMultipleString8:   "PtypMultipleString8",
	PtypMultipleString:    "PtypMultipleString",
	PtypMultipleGUID:      "PtypMultipleGUID",
	PtypMultipleBinary:    "PtypMultipleBinary",
}
