package domain

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// 附件相关的错误定义。
//
// ErrDuplicateAttachment 是可预期的领域性拒绝（调用方可以捕获后
// 换名重试）；ErrInvalidArgument 是调用契约被违反，正确的调用代码
// 不应触发。两者刻意分开，调用方用 errors.Is 区分处理。
var (
	// ErrDuplicateAttachment 文件名（不区分大小写）与已有附件冲突
	ErrDuplicateAttachment = errors.New("duplicate attachment")
	// ErrInvalidArgument 缺少必需输入（空数据源、内联附件缺 content-id 等）
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAttachmentNotFound 文件系统附件源不存在
	ErrAttachmentNotFound = errors.New("attachment file not found")
)

// Attachment 表示一个待序列化的附件记录。
//
// FileName 构造时即被归一化为最后一个路径分量；Payload 数据源在
// 序列化时被完整读取一次，构造后调用方不得再改动数据源内容。
type Attachment struct {
	FileName             string    // 归一化后的文件名（仅基本名）
	CreationTime         time.Time // 创建时间
	LastModificationTime time.Time // 最后修改时间
	IsInline             bool      // 是否为内联附件（正文通过 content-id 引用）
	ContentID            string    // 内联引用标识，IsInline 为真时必填

	source     io.Reader // 附件内容数据源，序列化时读取一次
	ownsSource bool      // 数据源由集合自己打开，序列化后由序列化方关闭
}

// Source 返回附件内容的数据源。
func (a *Attachment) Source() io.Reader {
	return a.source
}

// OwnsSource 报告数据源是否由集合打开（为真时序列化方负责关闭）。
func (a *Attachment) OwnsSource() bool {
	return a.ownsSource
}

// Attachments 是有序的附件集合。
//
// 插入顺序即序列化顺序（决定附件容器的数字序号）。所有修改都经由
// 唯一的校验路径 add，集合上不提供删除或按位插入操作，文件名唯一性
// 与内联校验因此无法被绕过。
type Attachments struct {
	items []*Attachment
}

// NewAttachments 创建空附件集合。
func NewAttachments() *Attachments {
	return &Attachments{}
}

// Add 追加一个普通附件，时间戳取当前时钟。
func (c *Attachments) Add(source io.Reader, fileName string) (*Attachment, error) {
	now := time.Now()
	return c.add(source, fileName, false, "", now, now, false)
}

// AddInline 追加一个内联附件。contentID 去除首尾空白后必须非空。
func (c *Attachments) AddInline(source io.Reader, fileName, contentID string) (*Attachment, error) {
	now := time.Now()
	return c.add(source, fileName, true, contentID, now, now, false)
}

// AddFile 打开路径指向的文件并追加为附件，时间戳取文件的真实
// 修改时间。文件句柄由集合持有，序列化完成后由序列化方关闭。
func (c *Attachments) AddFile(path string) (*Attachment, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAttachmentNotFound, path)
		}
		return nil, fmt.Errorf("open attachment: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat attachment: %w", err)
	}

	modTime := info.ModTime()
	att, err := c.add(file, path, false, "", modTime, modTime, true)
	if err != nil {
		file.Close()
		return nil, err
	}
	return att, nil
}

// add 唯一的校验与追加路径。校验失败时集合保持不变。
func (c *Attachments) add(source io.Reader, fileName string, isInline bool, contentID string, creation, modification time.Time, ownsSource bool) (*Attachment, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: attachment source is nil", ErrInvalidArgument)
	}
	if isInline && strings.TrimSpace(contentID) == "" {
		return nil, fmt.Errorf("%w: inline attachment requires a content id", ErrInvalidArgument)
	}

	base := baseName(fileName)
	if base == "" {
		return nil, fmt.Errorf("%w: attachment file name is empty", ErrInvalidArgument)
	}

	for _, existing := range c.items {
		if strings.EqualFold(existing.FileName, base) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAttachment, existing.FileName)
		}
	}

	att := &Attachment{
		FileName:             base,
		CreationTime:         creation,
		LastModificationTime: modification,
		IsInline:             isInline,
		ContentID:            contentID,
		source:               source,
		ownsSource:           ownsSource,
	}
	c.items = append(c.items, att)
	return att, nil
}

// Len 返回集合中的附件数。nil 集合视为空集合。
func (c *Attachments) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// All 按插入顺序返回全部附件。
func (c *Attachments) All() []*Attachment {
	out := make([]*Attachment, len(c.items))
	copy(out, c.items)
	return out
}

// baseName 取路径的最后一个分量，同时处理两种路径分隔符。
// 目录部分不参与唯一性比较，也不会写入文档。
func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}
