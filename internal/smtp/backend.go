package smtp

import (
	"fmt"
	"io"
	"strings"

	gosmtp "github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"msgstg/backend/internal/archive"
	"msgstg/backend/internal/monitoring"
)

// Backend 实现 go-smtp 的 Backend 接口。
//
// 这是一个只接收邮件的归档网关：每封通过 DATA 提交的邮件被解析、
// 编码为结构化存储容器树并落盘，不做任何转发。收件人域名允许
// 列表为空时接收全部域名；配置了列表时，发往列表外域名的邮件
// 一律返回 550 拒绝，网关因此不可能被当作中继使用。
type Backend struct {
	archiver       *archive.Service
	allowedDomains []string
	limiter        *ConnectionLimiter
	maxMessageSize int64
	log            *zap.Logger
	metrics        *monitoring.Metrics
}

// NewBackend 创建归档网关 Backend。
func NewBackend(
	archiver *archive.Service,
	allowedDomains []string,
	limiter *ConnectionLimiter,
	maxMessageSize int64,
	log *zap.Logger,
	metrics *monitoring.Metrics,
) *Backend {
	return &Backend{
		archiver:       archiver,
		allowedDomains: allowedDomains,
		limiter:        limiter,
		maxMessageSize: maxMessageSize,
		log:            log,
		metrics:        metrics,
	}
}

// NewSession 创建新的 SMTP 会话，超出连接配额时直接拒绝。
func (b *Backend) NewSession(c *gosmtp.Conn) (gosmtp.Session, error) {
	if b.limiter != nil && !b.limiter.Acquire() {
		if b.metrics != nil {
			b.metrics.ConnectionsRejected.Inc()
		}
		return nil, &gosmtp.SMTPError{
			Code:         421,
			EnhancedCode: gosmtp.EnhancedCode{4, 7, 0},
			Message:      "too many connections, try again later",
		}
	}
	if b.metrics != nil {
		b.metrics.ConnectionsAccepted.Inc()
	}
	return &session{backend: b}, nil
}

type session struct {
	backend     *Backend
	fromAddress string
	recipients  []string
	released    bool
}

// Mail 处理 MAIL 命令。
func (s *session) Mail(from string, _ *gosmtp.MailOptions) error {
	s.fromAddress = normalizeAddress(from)
	return nil
}

// Rcpt 处理 RCPT 命令，按域名允许列表过滤收件人。
func (s *session) Rcpt(to string, _ *gosmtp.RcptOptions) error {
	addr := normalizeAddress(to)

	parts := strings.Split(addr, "@")
	if len(parts) != 2 {
		return &gosmtp.SMTPError{
			Code:         501,
			EnhancedCode: gosmtp.EnhancedCode{5, 1, 3},
			Message:      "invalid recipient address",
		}
	}

	if len(s.backend.allowedDomains) > 0 {
		recipientDomain := parts[1]
		allowed := false
		for _, d := range s.backend.allowedDomains {
			if strings.EqualFold(d, recipientDomain) {
				allowed = true
				break
			}
		}
		if !allowed {
			s.reject("domain")
			return &gosmtp.SMTPError{
				Code:         550,
				EnhancedCode: gosmtp.EnhancedCode{5, 7, 1},
				Message:      "relay access denied - domain not archived by this server",
			}
		}
	}

	s.recipients = append(s.recipients, addr)
	return nil
}

// Data 处理邮件内容：解析后整体归档。
func (s *session) Data(r io.Reader) error {
	rawBytes, err := io.ReadAll(io.LimitReader(r, s.backend.maxMessageSize))
	if err != nil {
		return err
	}
	if s.backend.metrics != nil {
		s.backend.metrics.ArchivedBytes.Add(float64(len(rawBytes)))
	}

	parsed, err := ParseEmail(rawBytes)
	if err != nil {
		s.reject("parse")
		return fmt.Errorf("parse email: %w", err)
	}

	dir, err := s.backend.archiver.Archive(parsed)
	if err != nil {
		s.reject("archive")
		return fmt.Errorf("archive message: %w", err)
	}

	s.backend.log.Debug("message accepted",
		zap.String("from", s.fromAddress),
		zap.Strings("to", s.recipients),
		zap.String("dir", dir),
	)
	return nil
}

// AuthPlain 处理 PLAIN 认证（此处允许匿名）。
func (s *session) AuthPlain(username, password string) error {
	return nil
}

// Reset 重置状态。
func (s *session) Reset() {
	s.fromAddress = ""
	s.recipients = nil
}

// Logout 会话结束，释放连接配额。
func (s *session) Logout() error {
	if s.backend.limiter != nil && !s.released {
		s.backend.limiter.Release()
		s.released = true
	}
	return nil
}

func (s *session) reject(reason string) {
	if s.backend.metrics != nil {
		s.backend.metrics.MessagesRejected.WithLabelValues(reason).Inc()
	}
}

func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	addr = strings.Trim(addr, "<>")
	return strings.ToLower(addr)
}
