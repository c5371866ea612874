package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"msgstg/backend/internal/domain"
	"msgstg/backend/internal/mapi"
	"msgstg/backend/internal/msgwriter"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(msgwriter.NewWriter(), t.TempDir(), zap.NewNop(), nil)
}

func TestArchiveWritesContainerTree(t *testing.T) {
	svc := newTestService(t)

	m := domain.NewMessage()
	m.Subject = "quarterly report"
	m.SenderEmail = "alice@example.com"
	m.InternetMessageID = "<report-1@example.com>"
	_, err := m.Attachments.Add(bytes.NewReader([]byte{0x25, 0x50, 0x44, 0x46}), "Report.PDF")
	require.NoError(t, err)

	dir, err := svc.Archive(m)
	require.NoError(t, err)

	// 顶层必须有属性流和附件容器
	_, err = os.Stat(filepath.Join(dir, mapi.PropertiesStreamName))
	assert.NoError(t, err)

	attachDir := filepath.Join(dir, "__attach_version1.0_#00000000")
	info, err := os.Stat(attachDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	payload, err := os.ReadFile(filepath.Join(attachDir, mapi.StreamName(mapi.Lookup("PR_ATTACH_DATA_BIN"))))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x25, 0x50, 0x44, 0x46}, payload)

	name, err := os.ReadFile(filepath.Join(attachDir, "__substg1.0_3707001F"))
	require.NoError(t, err)
	assert.Equal(t, mapi.EncodeUnicode("Report.PDF"), name)
}

func TestArchiveMessageWithoutAttachmentCollection(t *testing.T) {
	svc := newTestService(t)

	// 序列化器接受 Attachments 为 nil 的消息，归档路径也必须接受
	dir, err := svc.Archive(&domain.Message{Subject: "no collection"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, mapi.PropertiesStreamName))
	assert.NoError(t, err)
}

func TestArchiveNameUsesSanitizedMessageID(t *testing.T) {
	svc := newTestService(t)

	m := domain.NewMessage()
	m.InternetMessageID = "<a/b\\c:d@example.com>"

	name := svc.archiveName(m)
	assert.True(t, strings.HasSuffix(name, "_a-b-c-d@example.com.msgtree"), name)
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "\\")
}

func TestArchiveNameGeneratesIDWhenMissing(t *testing.T) {
	svc := newTestService(t)

	first := svc.archiveName(domain.NewMessage())
	second := svc.archiveName(domain.NewMessage())
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, ".msgtree"))
}

func TestArchiveRejectsNilMessage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Archive(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
