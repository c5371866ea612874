package domain

import (
	"strings"
	"time"
)

// RecipientType 收件人类型（MAPI_TO / MAPI_CC / MAPI_BCC）。
type RecipientType int32

const (
	RecipientTo  RecipientType = 1
	RecipientCc  RecipientType = 2
	RecipientBcc RecipientType = 3
)

// Recipient 表示一个收件人。
type Recipient struct {
	Type        RecipientType // 收件方式
	DisplayName string        // 显示名，为空时用邮箱地址代替
	Email       string        // SMTP 地址
}

// Display 返回收件人的显示文本。
func (r Recipient) Display() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Email
}

// Message 表示一封待编码的邮件。
type Message struct {
	Subject           string       // 主题
	SenderName        string       // 发件人显示名
	SenderEmail       string       // 发件人地址
	Recipients        []Recipient  // 收件人列表（顺序即序列化顺序）
	BodyText          string       // 纯文本正文
	BodyHTML          string       // HTML 正文
	TransportHeaders  string       // 原始传输头
	InternetMessageID string       // Message-ID 头，缺失时序列化前生成
	SubmitTime        time.Time    // 客户端提交时间
	Attachments       *Attachments // 附件集合
}

// NewMessage 创建空消息，附件集合已就绪。
func NewMessage() *Message {
	return &Message{
		Attachments: NewAttachments(),
		SubmitTime:  time.Now(),
	}
}

// DisplayTo 返回 To 收件人的显示列表（分号分隔）。
func (m *Message) DisplayTo() string {
	return m.displayList(RecipientTo)
}

// DisplayCc 返回 Cc 收件人的显示列表。
func (m *Message) DisplayCc() string {
	return m.displayList(RecipientCc)
}

// DisplayBcc 返回 Bcc 收件人的显示列表。
func (m *Message) DisplayBcc() string {
	return m.displayList(RecipientBcc)
}

func (m *Message) displayList(t RecipientType) string {
	var parts []string
	for _, r := range m.Recipients {
		if r.Type == t {
			parts = append(parts, r.Display())
		}
	}
	return strings.Join(parts, "; ")
}

// HasAttachments 报告消息是否带附件。
func (m *Message) HasAttachments() bool {
	return m.Attachments != nil && m.Attachments.Len() > 0
}
