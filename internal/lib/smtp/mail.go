package smtp

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

// ErrNoRecipient возвращается при попытке отправить письмо без адресата.
var ErrNoRecipient = errors.New("smtp: empty recipient")

// Message письмо в виде plain text.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Build собирает письмо в формате RFC 5322.
func (m Message) Build(from string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// Send отправляет письмо через транспорт.
func Send(t TransportInterface, msg Message) error {
	const op = "smtp.Send"
	if msg.To == "" {
		return fmt.Errorf("%s: %w", op, ErrNoRecipient)
	}

	client, err := t.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = client.Close() }()

	from := t.GetSMTPUser()
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("%s: rcpt to: %w", op, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err := w.Write(msg.Build(from)); err != nil {
		_ = w.Close()
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: close data: %w", op, err)
	}
	return client.Quit()
}
