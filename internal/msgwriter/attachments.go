package msgwriter

import (
	"fmt"
	"io"

	"msgstg/backend/internal/domain"
	"msgstg/backend/internal/mapi"
	"msgstg/backend/internal/storage"
)

// ATTACH_BY_VALUE：附件数据直接内嵌在文档中。
const attachMethodByValue = 1

// WriteAttachments 按插入顺序把附件集合写入 root。
//
// 每个附件得到一个按序号命名的子容器，其中恰好两个叶子：文件名
// （UTF-16LE）与原始数据。数据源读取失败或引擎报错时立即返回，
// 已写入的节点不回滚。
func (w *Writer) WriteAttachments(root storage.Container, attachments *domain.Attachments) error {
	if attachments == nil {
		return fmt.Errorf("%w: attachments collection is nil", domain.ErrInvalidArgument)
	}

	for i, att := range attachments.All() {
		child, err := root.CreateChildContainer(mapi.AttachmentStorageName(i))
		if err != nil {
			return fmt.Errorf("create attachment storage %d: %w", i, err)
		}
		if _, _, err := w.writeAttachmentLeaves(child, att); err != nil {
			return fmt.Errorf("attachment %q: %w", att.FileName, err)
		}
	}
	return nil
}

// writeMessageAttachment 写完整消息路径下的附件容器：核心的两个
// 叶子，加上内联引用、扩展名与定长属性流。
func (w *Writer) writeMessageAttachment(root storage.Container, index int, att *domain.Attachment) error {
	child, err := root.CreateChildContainer(mapi.AttachmentStorageName(index))
	if err != nil {
		return fmt.Errorf("create attachment storage %d: %w", index, err)
	}

	nameData, payload, err := w.writeAttachmentLeaves(child, att)
	if err != nil {
		return fmt.Errorf("attachment %q: %w", att.FileName, err)
	}

	var ps mapi.PropertyStream
	ps.AddStream(w.fileNameTag, nameData)
	ps.AddStream(mapi.Lookup("PR_ATTACH_DATA_BIN"), payload)
	ps.AddInt32(mapi.Lookup("PR_ATTACH_METHOD"), attachMethodByValue)
	ps.AddInt32(mapi.Lookup("PR_ATTACH_NUM"), int32(index))
	ps.AddInt32(mapi.Lookup("PR_ATTACH_SIZE"), int32(len(payload)))
	ps.AddInt32(mapi.Lookup("PR_RENDERING_POSITION"), -1)
	ps.AddTime(mapi.Lookup("PR_CREATION_TIME"), att.CreationTime)
	ps.AddTime(mapi.Lookup("PR_LAST_MODIFICATION_TIME"), att.LastModificationTime)

	if att.IsInline {
		lw := &leafWriter{dst: child, ps: &ps}
		lw.unicode("PR_ATTACH_CONTENT_ID_UNICODE", att.ContentID)
		if lw.err != nil {
			return fmt.Errorf("attachment %q: %w", att.FileName, lw.err)
		}
		ps.AddBool(mapi.Lookup("PR_ATTACHMENT_HIDDEN"), true)
	}

	if err := child.CreateLeaf(mapi.PropertiesStreamName, ps.StorageBytes()); err != nil {
		return fmt.Errorf("attachment %q: %w", att.FileName, err)
	}
	return nil
}

// writeAttachmentLeaves 写附件协议规定的两个叶子，返回文件名叶子
// 与数据叶子的内容供属性流登记。
func (w *Writer) writeAttachmentLeaves(child storage.Container, att *domain.Attachment) (nameData, payload []byte, err error) {
	nameData = mapi.EncodeUnicode(att.FileName)
	if err := child.CreateLeaf(mapi.StreamName(w.fileNameTag), nameData); err != nil {
		return nil, nil, fmt.Errorf("write file name leaf: %w", err)
	}

	payload, err = readSource(att)
	if err != nil {
		return nil, nil, fmt.Errorf("read attachment source: %w", err)
	}

	dataTag := mapi.Lookup("PR_ATTACH_DATA_BIN")
	if err := child.CreateLeaf(mapi.StreamName(dataTag), payload); err != nil {
		return nil, nil, fmt.Errorf("write data leaf: %w", err)
	}
	return nameData, payload, nil
}

// readSource 完整读取附件数据源。集合自己打开的数据源（AddFile）
// 在所有退出路径上都会被关闭；调用方提供的数据源由调用方负责释放。
func readSource(att *domain.Attachment) ([]byte, error) {
	src := att.Source()
	if src == nil {
		return nil, fmt.Errorf("%w: attachment source is nil", domain.ErrInvalidArgument)
	}
	if att.OwnsSource() {
		if closer, ok := src.(io.Closer); ok {
			defer closer.Close()
		}
	}
	return io.ReadAll(src)
}
