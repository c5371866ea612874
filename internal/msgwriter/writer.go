package msgwriter

import (
	"fmt"

	"github.com/google/uuid"

	"msgstg/backend/internal/domain"
	"msgstg/backend/internal/mapi"
	"msgstg/backend/internal/storage"
)

// 消息级常量（[MS-OXCMSG]）
const (
	messageClassNote = "IPM.Note"
	addrTypeSMTP     = "SMTP"

	msgflagRead      = 0x00000001
	msgflagHasAttach = 0x00000010

	// STORE_UNICODE_OK：文档中的字符串属性以 Unicode 存储
	storeSupportUnicode = 0x00040000

	// Windows 代码页 65001 = UTF-8，用于 PR_INTERNET_CPID
	codepageUTF8 = 65001

	// MAPI_MAILUSER
	objectTypeMailUser = 6
)

// Writer 将消息对象编码进结构化存储容器。
//
// Writer 本身无状态可变共享：并发编码各消息时，各自使用独立的
// 目标容器即可，属性注册表只读共享。
type Writer struct {
	fileNameTag mapi.PropertyTag
}

// NewWriter 创建序列化器。
//
// 附件文件名叶子默认使用 PR_ATTACH_LONG_FILENAME 的 Unicode 变体；
// 历史实现写的是显示名属性（0x3001），需要逐字节兼容时可通过
// UseFileNameTag 切换。
func NewWriter() *Writer {
	return &Writer{
		fileNameTag: mapi.Lookup("PR_ATTACH_LONG_FILENAME_UNICODE"),
	}
}

// UseFileNameTag 覆盖附件文件名叶子使用的属性标签。
func (w *Writer) UseFileNameTag(tag mapi.PropertyTag) {
	w.fileNameTag = tag
}

// FileNameTag 返回当前生效的附件文件名属性标签。
func (w *Writer) FileNameTag() mapi.PropertyTag {
	return w.fileNameTag
}

// WriteMessage 把整封消息写入 root：顶层属性叶子、收件人容器、
// 附件容器以及各级的定长属性流。
//
// 任何一步失败立即向调用方返回；已写入的节点保持原样，调用方
// 需要整体丢弃目标容器后重试。
func (w *Writer) WriteMessage(root storage.Container, m *domain.Message) error {
	if m == nil {
		return fmt.Errorf("%w: message is nil", domain.ErrInvalidArgument)
	}

	messageID := m.InternetMessageID
	if messageID == "" {
		messageID = fmt.Sprintf("<%s@msgstg>", uuid.NewString())
	}

	var ps mapi.PropertyStream
	lw := &leafWriter{dst: root, ps: &ps}

	lw.unicode("PR_MESSAGE_CLASS_UNICODE", messageClassNote)
	lw.unicode("PR_SUBJECT_UNICODE", m.Subject)
	lw.unicode("PR_CONVERSATION_TOPIC_UNICODE", m.Subject)
	lw.unicode("PR_NORMALIZED_SUBJECT_UNICODE", m.Subject)
	lw.unicode("PR_SENDER_NAME_UNICODE", m.SenderName)
	lw.unicode("PR_SENDER_EMAIL_ADDRESS_UNICODE", m.SenderEmail)
	if m.SenderEmail != "" {
		lw.unicode("PR_SENDER_ADDRTYPE_UNICODE", addrTypeSMTP)
	}
	lw.unicode("PR_DISPLAY_TO_UNICODE", m.DisplayTo())
	lw.unicode("PR_DISPLAY_CC_UNICODE", m.DisplayCc())
	lw.unicode("PR_DISPLAY_BCC_UNICODE", m.DisplayBcc())
	lw.unicode("PR_BODY_UNICODE", m.BodyText)
	lw.binary("PR_HTML", []byte(m.BodyHTML))
	lw.unicode("PR_TRANSPORT_MESSAGE_HEADERS_UNICODE", m.TransportHeaders)
	lw.unicode("PR_INTERNET_MESSAGE_ID_UNICODE", messageID)
	if lw.err != nil {
		return lw.err
	}

	flags := int32(msgflagRead)
	if m.HasAttachments() {
		flags |= msgflagHasAttach
	}
	ps.AddInt32(mapi.Lookup("PR_MESSAGE_FLAGS"), flags)
	ps.AddBool(mapi.Lookup("PR_HASATTACH"), m.HasAttachments())
	ps.AddInt32(mapi.Lookup("PR_STORE_SUPPORT_MASK"), storeSupportUnicode)
	ps.AddInt32(mapi.Lookup("PR_INTERNET_CPID"), codepageUTF8)
	if !m.SubmitTime.IsZero() {
		ps.AddTime(mapi.Lookup("PR_CLIENT_SUBMIT_TIME"), m.SubmitTime)
		ps.AddTime(mapi.Lookup("PR_MESSAGE_DELIVERY_TIME"), m.SubmitTime)
	}

	for i, recipient := range m.Recipients {
		if err := w.writeRecipient(root, i, recipient); err != nil {
			return err
		}
	}

	attachmentCount := 0
	if m.Attachments != nil {
		for i, att := range m.Attachments.All() {
			if err := w.writeMessageAttachment(root, i, att); err != nil {
				return err
			}
		}
		attachmentCount = m.Attachments.Len()
	}

	recipientCount := uint32(len(m.Recipients))
	return root.CreateLeaf(mapi.PropertiesStreamName,
		ps.MessageBytes(recipientCount, uint32(attachmentCount), recipientCount, uint32(attachmentCount)))
}

// writeRecipient 写一个收件人容器。
func (w *Writer) writeRecipient(root storage.Container, index int, r domain.Recipient) error {
	child, err := root.CreateChildContainer(mapi.RecipientStorageName(index))
	if err != nil {
		return fmt.Errorf("create recipient storage %d: %w", index, err)
	}

	var ps mapi.PropertyStream
	lw := &leafWriter{dst: child, ps: &ps}
	lw.unicode("PR_DISPLAY_NAME_UNICODE", r.Display())
	lw.unicode("PR_EMAIL_ADDRESS_UNICODE", r.Email)
	lw.unicode("PR_SMTP_ADDRESS_UNICODE", r.Email)
	if r.Email != "" {
		lw.unicode("PR_ADDRTYPE_UNICODE", addrTypeSMTP)
	}
	if lw.err != nil {
		return lw.err
	}

	ps.AddInt32(mapi.Lookup("PR_ROWID"), int32(index))
	ps.AddInt32(mapi.Lookup("PR_RECIPIENT_TYPE"), int32(r.Type))
	ps.AddInt32(mapi.Lookup("PR_OBJECT_TYPE"), objectTypeMailUser)
	ps.AddInt32(mapi.Lookup("PR_DISPLAY_TYPE"), 0)

	return child.CreateLeaf(mapi.PropertiesStreamName, ps.StorageBytes())
}

// leafWriter 把变长属性写成 substg 叶子并同步登记属性流条目。
// 首个错误之后的调用全部短路。
type leafWriter struct {
	dst storage.Container
	ps  *mapi.PropertyStream
	err error
}

// unicode 写一个 UTF-16LE 字符串叶子，空值跳过。
func (lw *leafWriter) unicode(symbol, value string) {
	if lw.err != nil || value == "" {
		return
	}
	tag := mapi.Lookup(symbol)
	data := mapi.EncodeUnicode(value)
	if err := lw.dst.CreateLeaf(mapi.StreamName(tag), data); err != nil {
		lw.err = fmt.Errorf("write %s: %w", symbol, err)
		return
	}
	lw.ps.AddStream(tag, data)
}

// binary 写一个二进制叶子，空值跳过。
func (lw *leafWriter) binary(symbol string, data []byte) {
	if lw.err != nil || len(data) == 0 {
		return
	}
	tag := mapi.Lookup(symbol)
	if err := lw.dst.CreateLeaf(mapi.StreamName(tag), data); err != nil {
		lw.err = fmt.Errorf("write %s: %w", symbol, err)
		return
	}
	lw.ps.AddStream(tag, data)
}
