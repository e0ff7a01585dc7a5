package email

import (
	"context"
	"errors"
	"log"
	"net"
	"net/textproto"
	"strings"

	"github.com/wneessen/go-mail"
)

const ProviderSMTP = "smtp"

type smtpDialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type SMTPSender struct {
	client smtpDialer
}

func NewSMTPSender(host string, port int, user, pass string) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(pass),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Provider: ProviderSMTP, Err: err}
	}

	return &SMTPSender{client: client}, nil
}

func (s *SMTPSender) Name() string {
	return ProviderSMTP
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := validate(ProviderSMTP, msg); err != nil {
		return "", err
	}

	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return "", &Error{Kind: KindRejected, Provider: ProviderSMTP, Err: err}
	}
	if err := m.To(msg.To); err != nil {
		return "", &Error{Kind: KindRejected, Provider: ProviderSMTP, Err: err}
	}
	m.Subject(msg.Subject)
	m.SetMessageID()
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		log.Printf("Error sending email via SMTP: %v\n", err)
		return "", &Error{Kind: classifySMTP(err), Provider: ProviderSMTP, Err: err}
	}

	return m.GetMessageID(), nil
}

func classifySMTP(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return classifySMTPCode(tpErr.Code)
	}

	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		switch sendErr.Reason {
		case mail.ErrSMTPMailFrom, mail.ErrSMTPRcptTo, mail.ErrSMTPData, mail.ErrSMTPDataClose:
			return KindRejected
		case mail.ErrConnCheck:
			return KindConnection
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "auth"):
		return KindAuth
	case strings.Contains(msg, "dial") || strings.Contains(msg, "connection refused"):
		return KindConnection
	case strings.Contains(msg, "timeout"):
		return KindTimeout
	}

	return KindUnknown
}

func classifySMTPCode(code int) Kind {
	switch {
	case code == 530 || code == 534 || code == 535 || code == 454:
		return KindAuth
	case code == 421:
		return KindConnection
	case code >= 550 && code <= 554:
		return KindRejected
	}
	return KindUnknown
}
