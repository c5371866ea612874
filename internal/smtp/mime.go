package smtp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	"msgstg/backend/internal/domain"
)

// ParseEmail 把原始 RFC 5322 字节解析为待编码的消息对象。
//
// 文本与 HTML 正文、收件人、附件都会被提取；附件经由集合唯一的
// 校验路径加入，重名附件在解析阶段即被拒绝。
func ParseEmail(rawEmail []byte) (*domain.Message, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(rawEmail))
	if err != nil {
		return nil, fmt.Errorf("parse mail: %w", err)
	}

	parsed := domain.NewMessage()
	parsed.Subject = decodeHeader(msg.Header.Get("Subject"))
	parsed.InternetMessageID = msg.Header.Get("Message-Id")
	parsed.TransportHeaders = rawHeaders(rawEmail)

	if date, err := msg.Header.Date(); err == nil {
		parsed.SubmitTime = date
	}

	if from, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
		parsed.SenderName = decodeHeader(from.Name)
		parsed.SenderEmail = from.Address
	} else {
		parsed.SenderEmail = msg.Header.Get("From")
	}

	parsed.Recipients = append(parsed.Recipients, parseRecipients(msg.Header.Get("To"), domain.RecipientTo)...)
	parsed.Recipients = append(parsed.Recipients, parseRecipients(msg.Header.Get("Cc"), domain.RecipientCc)...)

	contentType := msg.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// 没有 Content-Type 或解析失败，当作纯文本处理
		body, _ := io.ReadAll(msg.Body)
		parsed.BodyText = string(body)
		return parsed, nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return nil, fmt.Errorf("multipart message without boundary")
		}

		mr := multipart.NewReader(msg.Body, boundary)
		if err := parseMultipart(mr, parsed); err != nil {
			return nil, fmt.Errorf("parse multipart: %w", err)
		}
	} else {
		body, err := decodeBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"), params["charset"])
		if err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}

		if strings.HasPrefix(mediaType, "text/html") {
			parsed.BodyHTML = body
		} else {
			parsed.BodyText = body
		}
	}

	return parsed, nil
}

// parseRecipients 解析一个地址头为收件人列表。
func parseRecipients(header string, t domain.RecipientType) []domain.Recipient {
	if header == "" {
		return nil
	}
	addresses, err := mail.ParseAddressList(header)
	if err != nil {
		return []domain.Recipient{{Type: t, Email: strings.TrimSpace(header)}}
	}
	out := make([]domain.Recipient, 0, len(addresses))
	for _, addr := range addresses {
		out = append(out, domain.Recipient{
			Type:        t,
			DisplayName: decodeHeader(addr.Name),
			Email:       addr.Address,
		})
	}
	return out
}

// rawHeaders 截取原始报文的头部（到第一个空行为止）。
func rawHeaders(rawEmail []byte) string {
	if i := bytes.Index(rawEmail, []byte("\r\n\r\n")); i >= 0 {
		return string(rawEmail[:i+2])
	}
	if i := bytes.Index(rawEmail, []byte("\n\n")); i >= 0 {
		return string(rawEmail[:i+1])
	}
	return string(rawEmail)
}

// parseMultipart 递归解析多部分邮件。
func parseMultipart(mr *multipart.Reader, parsed *domain.Message) error {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		contentType := part.Header.Get("Content-Type")
		mediaType, params, err := mime.ParseMediaType(contentType)
		if err != nil {
			mediaType = "text/plain"
		}

		// 检查是否是附件
		disposition := part.Header.Get("Content-Disposition")
		if disposition != "" {
			dispType, dispParams, _ := mime.ParseMediaType(disposition)
			if dispType == "attachment" || dispType == "inline" {
				filename := dispParams["filename"]
				if filename == "" {
					filename = params["name"]
				}
				if filename == "" {
					filename = "unnamed"
				}
				filename = decodeHeader(filename)

				content, err := io.ReadAll(part)
				if err != nil {
					continue
				}

				// 解码附件内容（如果是 base64 编码）
				transferEncoding := part.Header.Get("Content-Transfer-Encoding")
				if strings.ToLower(transferEncoding) == "base64" {
					decoded, err := base64.StdEncoding.DecodeString(string(content))
					if err == nil {
						content = decoded
					}
				}

				contentID := strings.Trim(part.Header.Get("Content-Id"), "<> ")
				if dispType == "inline" && contentID != "" {
					_, err = parsed.Attachments.AddInline(bytes.NewReader(content), filename, contentID)
				} else {
					_, err = parsed.Attachments.Add(bytes.NewReader(content), filename)
				}
				if err != nil {
					return fmt.Errorf("add attachment: %w", err)
				}
				continue
			}
		}

		// 处理嵌套的 multipart
		if strings.HasPrefix(mediaType, "multipart/") {
			boundary := params["boundary"]
			if boundary != "" {
				nestedReader := multipart.NewReader(part, boundary)
				if err := parseMultipart(nestedReader, parsed); err != nil {
					return err
				}
			}
			continue
		}

		// 处理文本内容
		body, err := decodeBody(part, part.Header.Get("Content-Transfer-Encoding"), params["charset"])
		if err != nil {
			continue
		}

		if strings.HasPrefix(mediaType, "text/html") {
			if parsed.BodyHTML == "" {
				parsed.BodyHTML = body
			}
		} else if strings.HasPrefix(mediaType, "text/plain") {
			if parsed.BodyText == "" {
				parsed.BodyText = body
			}
		}
	}

	return nil
}

// decodeBody 根据编码方式解码邮件体。
func decodeBody(reader io.Reader, transferEncoding string, charset string) (string, error) {
	transferEncoding = strings.ToLower(strings.TrimSpace(transferEncoding))

	var decoded io.Reader = reader

	switch transferEncoding {
	case "base64":
		decoded = base64.NewDecoder(base64.StdEncoding, reader)
	case "quoted-printable":
		decoded = quotedprintable.NewReader(reader)
	case "7bit", "8bit", "binary", "":
		decoded = reader
	default:
		// 未知编码，尝试直接读取
		decoded = reader
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}

	// 字符集转换
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset != "" && charset != "utf-8" && charset != "us-ascii" {
		if enc := getCharsetEncoding(charset); enc != nil {
			decoder := enc.NewDecoder()
			converted, _, err := transform.Bytes(decoder, body)
			if err == nil {
				body = converted
			}
		}
	}

	return string(body), nil
}

// getCharsetEncoding 根据字符集名称返回编码器
func getCharsetEncoding(charset string) encoding.Encoding {
	switch charset {
	case "gb2312", "gbk", "gb18030":
		return simplifiedchinese.GBK
	case "big5":
		return traditionalchinese.Big5
	case "iso-2022-jp", "shift_jis", "euc-jp":
		return japanese.ShiftJIS
	case "euc-kr", "ks_c_5601-1987":
		return korean.EUCKR
	default:
		return nil
	}
}

func decodeHeader(value string) string {
	if value == "" {
		return value
	}
	decoder := new(mime.WordDecoder)
	decoded, err := decoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}
