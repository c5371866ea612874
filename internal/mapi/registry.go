package mapi

import (
	"fmt"
	"sort"
)

// 属性注册表：符号名 → (ID, 类型) 的唯一冻结映射。
//
// 表在包初始化时构建一次，运行期只读。ANSI/Unicode 成对的字符串
// 属性共享同一个 ID，以 "PR_X"（8 位代码页变体）和 "PR_X_UNICODE"
// （UTF-16 变体）两个符号名注册。数值来自 [MS-OXPROPS]，属于磁盘
// 格式契约，不可改动。

// stringPropertyIDs 同时存在 ANSI 与 Unicode 变体的字符串属性。
// 每个条目展开为两条注册项：PtypString8 与 PtypString。
var stringPropertyIDs = []struct {
	name string
	id   uint16
}{
	{"PR_SUBJECT_PREFIX", 0x003D},
	{"PR_RECEIVED_BY_NAME", 0x0040},
	{"PR_SENT_REPRESENTING_NAME", 0x0042},
	{"PR_RCVD_REPRESENTING_NAME", 0x0044},
	{"PR_REPLY_RECIPIENT_NAMES", 0x0050},
	{"PR_SENT_REPRESENTING_ADDRTYPE", 0x0064},
	{"PR_SENT_REPRESENTING_EMAIL_ADDRESS", 0x0065},
	{"PR_CONVERSATION_TOPIC", 0x0070},
	{"PR_RECEIVED_BY_ADDRTYPE", 0x0075},
	{"PR_RECEIVED_BY_EMAIL_ADDRESS", 0x0076},
	{"PR_RCVD_REPRESENTING_ADDRTYPE", 0x0077},
	{"PR_RCVD_REPRESENTING_EMAIL_ADDRESS", 0x0078},
	{"PR_TRANSPORT_MESSAGE_HEADERS", 0x007D},
	{"PR_SENDER_NAME", 0x0C1A},
	{"PR_SENDER_ADDRTYPE", 0x0C1E},
	{"PR_SENDER_EMAIL_ADDRESS", 0x0C1F},
	{"PR_DISPLAY_BCC", 0x0E02},
	{"PR_DISPLAY_CC", 0x0E03},
	{"PR_DISPLAY_TO", 0x0E04},
	{"PR_NORMALIZED_SUBJECT", 0x0E1D},
	{"PR_PRIMARY_SEND_ACCOUNT", 0x0E28},
	{"PR_BODY", 0x1000},
	{"PR_BODY_HTML", 0x1013},
	{"PR_INTERNET_MESSAGE_ID", 0x1035},
	{"PR_INTERNET_REFERENCES", 0x1039},
	{"PR_IN_REPLY_TO_ID", 0x1042},
	{"PR_MESSAGE_CLASS", 0x001A},
	{"PR_SUBJECT", 0x0037},
	{"PR_DISPLAY_NAME", 0x3001},
	{"PR_ADDRTYPE", 0x3002},
	{"PR_EMAIL_ADDRESS", 0x3003},
	{"PR_COMMENT", 0x3004},
	{"PR_ATTACH_EXTENSION", 0x3703},
	{"PR_ATTACH_FILENAME", 0x3704},
	{"PR_ATTACH_LONG_FILENAME", 0x3707},
	{"PR_ATTACH_PATHNAME", 0x3708},
	{"PR_ATTACH_TRANSPORT_NAME", 0x370C},
	{"PR_ATTACH_LONG_PATHNAME", 0x370D},
	{"PR_ATTACH_MIME_TAG", 0x370E},
	{"PR_ATTACH_CONTENT_ID", 0x3712},
	{"PR_ATTACH_CONTENT_LOCATION", 0x3713},
	{"PR_7BIT_DISPLAY_NAME", 0x39FF},
	{"PR_SMTP_ADDRESS", 0x39FE},
	{"PR_RECIPIENT_DISPLAY_NAME", 0x5FF6},
}

// fixedProperties 只有单一类型的属性。
var fixedProperties = map[string]PropertyTag{
	// 信封与消息级属性
	"PR_ACKNOWLEDGEMENT_MODE":                 {0x0001, PtypInteger32},
	"PR_ALTERNATE_RECIPIENT_ALLOWED":          {0x0002, PtypBoolean},
	"PR_IMPORTANCE":                           {0x0017, PtypInteger32},
	"PR_ORIGINATOR_DELIVERY_REPORT_REQUESTED": {0x0023, PtypBoolean},
	"PR_PRIORITY":                             {0x0026, PtypInteger32},
	"PR_READ_RECEIPT_REQUESTED":               {0x0029, PtypBoolean},
	"PR_SENSITIVITY":                          {0x0036, PtypInteger32},
	"PR_CLIENT_SUBMIT_TIME":                   {0x0039, PtypTime},
	"PR_SENT_REPRESENTING_SEARCH_KEY":         {0x003B, PtypBinary},
	"PR_RECEIVED_BY_ENTRYID":                  {0x003F, PtypBinary},
	"PR_SENT_REPRESENTING_ENTRYID":            {0x0041, PtypBinary},
	"PR_RCVD_REPRESENTING_ENTRYID":            {0x0043, PtypBinary},
	"PR_REPLY_RECIPIENT_ENTRIES":              {0x004F, PtypBinary},
	"PR_RECEIVED_BY_SEARCH_KEY":               {0x0051, PtypBinary},
	"PR_RCVD_REPRESENTING_SEARCH_KEY":         {0x0052, PtypBinary},
	"PR_MESSAGE_TO_ME":                        {0x0057, PtypBoolean},
	"PR_MESSAGE_CC_ME":                        {0x0058, PtypBoolean},
	"PR_CONVERSATION_INDEX":                   {0x0071, PtypBinary},
	"PR_SENDER_ENTRYID":                       {0x0C19, PtypBinary},
	"PR_SENDER_SEARCH_KEY":                    {0x0C1D, PtypBinary},
	"PR_DELETE_AFTER_SUBMIT":                  {0x0E01, PtypBoolean},
	"PR_MESSAGE_DELIVERY_TIME":                {0x0E06, PtypTime},
	"PR_MESSAGE_FLAGS":                        {0x0E07, PtypInteger32},
	"PR_MESSAGE_SIZE":                         {0x0E08, PtypInteger32},
	"PR_RESPONSIBILITY":                       {0x0E0F, PtypBoolean},
	"PR_HASATTACH":                            {0x0E1B, PtypBoolean},
	"PR_RTF_IN_SYNC":                          {0x0E1F, PtypBoolean},
	"PR_ATTACH_SIZE":                          {0x0E20, PtypInteger32},
	"PR_ATTACH_NUM":                           {0x0E21, PtypInteger32},

	// 通用对象属性
	"PR_ACCESS":        {0x0FF4, PtypInteger32},
	"PR_INSTANCE_KEY":  {0x0FF6, PtypBinary},
	"PR_ACCESS_LEVEL":  {0x0FF7, PtypInteger32},
	"PR_RECORD_KEY":    {0x0FF9, PtypBinary},
	"PR_STORE_ENTRYID": {0x0FFB, PtypBinary},
	"PR_OBJECT_TYPE":   {0x0FFE, PtypInteger32},
	"PR_ENTRYID":       {0x0FFF, PtypBinary},
	"PR_ROWID":         {0x3000, PtypInteger32},
	"PR_SEARCH_KEY":    {0x300B, PtypBinary},

	// 正文相关
	"PR_RTF_COMPRESSED":        {0x1009, PtypBinary},
	"PR_HTML":                  {0x1013, PtypBinary},
	"PR_NATIVE_BODY":           {0x1016, PtypInteger32},
	"PR_ICON_INDEX":            {0x1080, PtypInteger32},
	"PR_MESSAGE_EDITOR_FORMAT": {0x5909, PtypInteger32},
	"PR_INTERNET_CPID":         {0x3FDE, PtypInteger32},
	"PR_MESSAGE_LOCALE_ID":     {0x3FF1, PtypInteger32},
	"PR_MESSAGE_CODEPAGE":      {0x3FFD, PtypInteger32},

	// 时间戳与存储能力
	"PR_CREATION_TIME":          {0x3007, PtypTime},
	"PR_LAST_MODIFICATION_TIME": {0x3008, PtypTime},
	"PR_STORE_SUPPORT_MASK":     {0x340D, PtypInteger32},
	"PR_VALID_FOLDER_MASK":      {0x35DF, PtypInteger32},

	// 收件人属性
	"PR_RECIPIENT_TYPE":         {0x0C15, PtypInteger32},
	"PR_DISPLAY_TYPE":           {0x3900, PtypInteger32},
	"PR_SEND_RICH_INFO":         {0x3A40, PtypBoolean},
	"PR_SEND_INTERNET_ENCODING": {0x3A71, PtypInteger32},
	"PR_RECIPIENT_ENTRYID":      {0x5FF7, PtypBinary},
	"PR_RECIPIENT_FLAGS":        {0x5FFD, PtypInteger32},
	"PR_RECIPIENT_ORDER":        {0x5FDF, PtypInteger32},
	"PR_RECIPIENT_TRACKSTATUS":  {0x5FFF, PtypInteger32},

	// 附件属性
	"PR_ATTACH_DATA_BIN":        {0x3701, PtypBinary},
	"PR_ATTACH_DATA_OBJ":        {0x3701, PtypObject},
	"PR_ATTACH_ENCODING":        {0x3702, PtypBinary},
	"PR_ATTACH_METHOD":          {0x3705, PtypInteger32},
	"PR_ATTACH_RENDERING":       {0x3709, PtypBinary},
	"PR_ATTACH_TAG":             {0x370A, PtypBinary},
	"PR_RENDERING_POSITION":     {0x370B, PtypInteger32},
	"PR_ATTACH_ADDITIONAL_INFO": {0x370F, PtypBinary},
	"PR_ATTACH_FLAGS":           {0x3714, PtypInteger32},
	"PR_ATTACHMENT_LINKID":      {0x7FFA, PtypInteger32},
	"PR_ATTACHMENT_FLAGS":       {0x7FFD, PtypInteger32},
	"PR_ATTACHMENT_HIDDEN":      {0x7FFE, PtypBoolean},
}

// registry 冻结的全量注册表，init 时构建，此后只读。
var registry map[string]PropertyTag

func init() {
	registry = make(map[string]PropertyTag, len(fixedProperties)+2*len(stringPropertyIDs))

	for name, tag := range fixedProperties {
		registry[name] = tag
	}

	for _, p := range stringPropertyIDs {
		ansi := p.name
		unicode := p.name + "_UNICODE"
		if _, dup := registry[ansi]; dup {
			panic(fmt.Sprintf("mapi: duplicate property name %s", ansi))
		}
		registry[ansi] = PropertyTag{ID: p.id, Type: PtypString8}
		registry[unicode] = PropertyTag{ID: p.id, Type: PtypString}
	}
}

// Lookup 按符号名返回属性标签。
//
// 名字不在表中属于编程错误而不是运行期状况，直接 panic；
// 所有合法名字在编译期就能从调用点确定。
func Lookup(name string) PropertyTag {
	tag, ok := registry[name]
	if !ok {
		panic(fmt.Sprintf("mapi: unknown property name %q", name))
	}
	return tag
}

// Names 返回注册表中全部符号名（排序后），供诊断与测试遍历。
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
