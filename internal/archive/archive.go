package archive

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"msgstg/backend/internal/domain"
	"msgstg/backend/internal/monitoring"
	"msgstg/backend/internal/msgwriter"
	"msgstg/backend/internal/storage/memory"
)

// Service 把消息对象编码为容器树并落盘。
//
// 每封消息编码进独立的内存容器树，再镜像到归档目录下一个唯一
// 命名的子目录：目录即容器、文件即叶子，形状与外部存储引擎最终
// 写入复合文档的树一致。
type Service struct {
	writer  *msgwriter.Writer
	baseDir string
	log     *zap.Logger
	metrics *monitoring.Metrics
}

// NewService 创建归档服务。metrics 可为 nil（例如单测）。
func NewService(writer *msgwriter.Writer, baseDir string, log *zap.Logger, metrics *monitoring.Metrics) *Service {
	return &Service{
		writer:  writer,
		baseDir: baseDir,
		log:     log,
		metrics: metrics,
	}
}

// Archive 编码并落盘一封消息，返回归档目录路径。
func (s *Service) Archive(m *domain.Message) (string, error) {
	start := time.Now()

	root := memory.NewContainer()
	if err := s.writer.WriteMessage(root, m); err != nil {
		s.fail("encode")
		return "", fmt.Errorf("encode message: %w", err)
	}

	dir := filepath.Join(s.baseDir, s.archiveName(m))
	if err := root.DumpToDir(dir); err != nil {
		s.fail("dump")
		return "", fmt.Errorf("dump container tree: %w", err)
	}

	if s.metrics != nil {
		s.metrics.MessagesArchived.Inc()
		if m.Attachments != nil {
			s.metrics.AttachmentsWritten.Add(float64(m.Attachments.Len()))
		}
		s.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	}
	s.log.Info("message archived",
		zap.String("dir", dir),
		zap.String("subject", m.Subject),
		zap.Int("attachments", m.Attachments.Len()),
	)
	return dir, nil
}

func (s *Service) fail(stage string) {
	if s.metrics != nil {
		s.metrics.ArchiveFailures.WithLabelValues(stage).Inc()
	}
}

// archiveName 生成归档子目录名：时间戳加消息标识。
// Message-ID 里文件系统不友好的字符一律替换掉。
func (s *Service) archiveName(m *domain.Message) string {
	id := strings.Trim(m.InternetMessageID, "<>")
	if id == "" {
		id = uuid.NewString()
	}
	id = sanitize(id)
	if len(id) > 64 {
		id = id[:64]
	}
	return fmt.Sprintf("%s_%s.msgtree", time.Now().UTC().Format("20060102T150405"), id)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_' || r == '@':
			return r
		default:
			return '-'
		}
	}, name)
}
