package notify

import (
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host, port, user, pass string) (*Mailer, error) {
	if host == "" {
		return nil, nil
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("mail port: %w", err)
	}
	d := gomail.NewDialer(host, p, user, pass)
	d.SSL = true
	return &Mailer{dialer: d, from: fmt.Sprintf("\"Info - Moi Kanakku\" <%s>", user)}, nil
}

// Send delivers one HTML mail. Nil mailer is a no-op so dev environments
// without SMTP still work.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m == nil || m.dialer == nil {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
