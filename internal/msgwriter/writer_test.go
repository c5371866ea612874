package msgwriter

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msgstg/backend/internal/domain"
	"msgstg/backend/internal/mapi"
	"msgstg/backend/internal/storage/memory"
)

func TestWriteAttachmentsEndToEnd(t *testing.T) {
	payload := []byte{0x25, 0x50, 0x44, 0x46}

	attachments := domain.NewAttachments()
	_, err := attachments.Add(bytes.NewReader(payload), "Report.PDF")
	require.NoError(t, err)

	root := memory.NewContainer()
	writer := NewWriter()
	require.NoError(t, writer.WriteAttachments(root, attachments))

	child := root.Child("__attach_version1.0_#00000000")
	require.NotNil(t, child, "attachment container must use suffix #00000000")

	// 恰好两个叶子：文件名与数据
	leaves := child.LeafNames()
	require.Len(t, leaves, 2)

	nameLeaf, ok := child.Leaf(mapi.StreamName(writer.FileNameTag()))
	require.True(t, ok)
	assert.Equal(t, mapi.EncodeUnicode("Report.PDF"), nameLeaf)

	dataLeaf, ok := child.Leaf(mapi.StreamName(mapi.Lookup("PR_ATTACH_DATA_BIN")))
	require.True(t, ok)
	assert.Equal(t, payload, dataLeaf)
}

func TestWriteAttachmentsIndexFollowsInsertionOrder(t *testing.T) {
	attachments := domain.NewAttachments()
	_, err := attachments.Add(bytes.NewReader([]byte("A")), "a.bin")
	require.NoError(t, err)
	_, err = attachments.Add(bytes.NewReader([]byte("B")), "b.bin")
	require.NoError(t, err)

	root := memory.NewContainer()
	require.NoError(t, NewWriter().WriteAttachments(root, attachments))

	first := root.Child("__attach_version1.0_#00000000")
	require.NotNil(t, first)
	data, ok := first.Leaf(mapi.StreamName(mapi.Lookup("PR_ATTACH_DATA_BIN")))
	require.True(t, ok)
	assert.Equal(t, []byte("A"), data)

	second := root.Child("__attach_version1.0_#00000001")
	require.NotNil(t, second)
	data, ok = second.Leaf(mapi.StreamName(mapi.Lookup("PR_ATTACH_DATA_BIN")))
	require.True(t, ok)
	assert.Equal(t, []byte("B"), data)
}

func TestWriteAttachmentsConfigurableFileNameTag(t *testing.T) {
	attachments := domain.NewAttachments()
	_, err := attachments.Add(bytes.NewReader(nil), "x.txt")
	require.NoError(t, err)

	root := memory.NewContainer()
	writer := NewWriter()
	writer.UseFileNameTag(mapi.Lookup("PR_DISPLAY_NAME_UNICODE"))
	require.NoError(t, writer.WriteAttachments(root, attachments))

	child := root.Child("__attach_version1.0_#00000000")
	require.NotNil(t, child)
	_, ok := child.Leaf("__substg1.0_3001001F")
	assert.True(t, ok, "file name leaf must use the configured display-name tag")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("source exhausted")
}

func TestWriteAttachmentsSourceFailurePropagates(t *testing.T) {
	attachments := domain.NewAttachments()
	_, err := attachments.Add(failingReader{}, "broken.bin")
	require.NoError(t, err)

	root := memory.NewContainer()
	err = NewWriter().WriteAttachments(root, attachments)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.bin")
}

func TestWriteMessage(t *testing.T) {
	m := domain.NewMessage()
	m.Subject = "Quarterly report"
	m.SenderName = "Alice"
	m.SenderEmail = "alice@example.com"
	m.BodyText = "See attached."
	m.BodyHTML = "<p>See attached.</p>"
	m.InternetMessageID = "<abc@example.com>"
	m.SubmitTime = time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	m.Recipients = []domain.Recipient{
		{Type: domain.RecipientTo, DisplayName: "Bob", Email: "bob@example.com"},
		{Type: domain.RecipientCc, Email: "carol@example.com"},
	}
	_, err := m.Attachments.Add(bytes.NewReader([]byte{1, 2, 3}), "data.bin")
	require.NoError(t, err)

	root := memory.NewContainer()
	require.NoError(t, NewWriter().WriteMessage(root, m))

	// 顶层字符串属性
	subject, ok := root.Leaf(mapi.StreamName(mapi.Lookup("PR_SUBJECT_UNICODE")))
	require.True(t, ok)
	assert.Equal(t, mapi.EncodeUnicode("Quarterly report"), subject)

	class, ok := root.Leaf(mapi.StreamName(mapi.Lookup("PR_MESSAGE_CLASS_UNICODE")))
	require.True(t, ok)
	assert.Equal(t, mapi.EncodeUnicode("IPM.Note"), class)

	displayTo, ok := root.Leaf(mapi.StreamName(mapi.Lookup("PR_DISPLAY_TO_UNICODE")))
	require.True(t, ok)
	assert.Equal(t, mapi.EncodeUnicode("Bob"), displayTo)

	// 定长属性流存在且头部计数正确
	props, ok := root.Leaf(mapi.PropertiesStreamName)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(props), 32)

	// 收件人与附件容器
	recip := root.Child("__recip_version1.0_#00000000")
	require.NotNil(t, recip)
	name, ok := recip.Leaf(mapi.StreamName(mapi.Lookup("PR_DISPLAY_NAME_UNICODE")))
	require.True(t, ok)
	assert.Equal(t, mapi.EncodeUnicode("Bob"), name)
	_, ok = recip.Leaf(mapi.PropertiesStreamName)
	assert.True(t, ok)

	att := root.Child("__attach_version1.0_#00000000")
	require.NotNil(t, att)
	_, ok = att.Leaf(mapi.PropertiesStreamName)
	assert.True(t, ok)
	data, ok := att.Leaf(mapi.StreamName(mapi.Lookup("PR_ATTACH_DATA_BIN")))
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestWriteMessageGeneratesMessageID(t *testing.T) {
	m := domain.NewMessage()
	m.Subject = "no id"

	root := memory.NewContainer()
	require.NoError(t, NewWriter().WriteMessage(root, m))

	leaf, ok := root.Leaf(mapi.StreamName(mapi.Lookup("PR_INTERNET_MESSAGE_ID_UNICODE")))
	require.True(t, ok)
	assert.NotEmpty(t, leaf)
}

func TestWriteMessageInlineAttachment(t *testing.T) {
	m := domain.NewMessage()
	_, err := m.Attachments.AddInline(bytes.NewReader([]byte{0xFF}), "logo.png", "cid-1")
	require.NoError(t, err)

	root := memory.NewContainer()
	require.NoError(t, NewWriter().WriteMessage(root, m))

	att := root.Child("__attach_version1.0_#00000000")
	require.NotNil(t, att)
	cid, ok := att.Leaf(mapi.StreamName(mapi.Lookup("PR_ATTACH_CONTENT_ID_UNICODE")))
	require.True(t, ok)
	assert.Equal(t, mapi.EncodeUnicode("cid-1"), cid)
}

func TestWriteMessageNil(t *testing.T) {
	err := NewWriter().WriteMessage(memory.NewContainer(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestWriteAttachmentsIntoUsedContainerFails(t *testing.T) {
	attachments := domain.NewAttachments()
	_, err := attachments.Add(bytes.NewReader(nil), "x.txt")
	require.NoError(t, err)

	root := memory.NewContainer()
	writer := NewWriter()
	require.NoError(t, writer.WriteAttachments(root, attachments))

	// 重复序列化同一目标：名字冲突原样向上传播
	attachments2 := domain.NewAttachments()
	_, err = attachments2.Add(bytes.NewReader(nil), "y.txt")
	require.NoError(t, err)
	assert.Error(t, writer.WriteAttachments(root, attachments2))
}
