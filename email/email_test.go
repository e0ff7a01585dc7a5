package email

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSES struct {
	sesiface.SESAPI
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, opts ...request.Option) (*ses.SendEmailOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
}

var testMsg = Message{From: "hr@example.com", To: "dev@example.com", Subject: "Hi", Text: "hello"}

func TestSESSend(t *testing.T) {
	fake := &fakeSES{}
	sender := NewSESSenderWithClient(fake)

	id, err := sender.Send(context.Background(), testMsg)
	require.NoError(t, err)
	assert.Equal(t, "ses-123", id)

	require.NotNil(t, fake.input)
	assert.Equal(t, "hr@example.com", aws.StringValue(fake.input.Source))
	assert.Equal(t, "dev@example.com", aws.StringValue(fake.input.Destination.ToAddresses[0]))
	assert.Equal(t, "hello", aws.StringValue(fake.input.Message.Body.Text.Data))
	assert.Nil(t, fake.input.Message.Body.Html)
}

func TestSESErrorKinds(t *testing.T) {
	cases := map[string]Kind{
		ses.ErrCodeMessageRejected:                       KindRejected,
		ses.ErrCodeConfigurationSetDoesNotExistException: KindConfig,
		"InvalidClientTokenId":                           KindAuth,
		request.ErrCodeRequestError:                      KindConnection,
		request.ErrCodeResponseTimeout:                   KindTimeout,
		"SomethingElse":                                  KindUnknown,
	}

	for code, want := range cases {
		sender := NewSESSenderWithClient(&fakeSES{err: awserr.New(code, "boom", nil)})
		_, err := sender.Send(context.Background(), testMsg)

		var emailErr *Error
		require.ErrorAs(t, err, &emailErr, code)
		assert.Equal(t, want, emailErr.Kind, code)
		assert.Equal(t, ProviderSES, emailErr.Provider)
	}
}

func TestMissingAddressesIsConfigError(t *testing.T) {
	fake := &fakeSES{}
	_, err := NewSESSenderWithClient(fake).Send(context.Background(), Message{Subject: "x"})

	var emailErr *Error
	require.ErrorAs(t, err, &emailErr)
	assert.Equal(t, KindConfig, emailErr.Kind)
	assert.Nil(t, fake.input)
}

type fakeDialer struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeDialer) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	f.sent = append(f.sent, messages...)
	return f.err
}

func TestSMTPSend(t *testing.T) {
	dialer := &fakeDialer{}
	sender := &SMTPSender{client: dialer}

	id, err := sender.Send(context.Background(), Message{From: "a@example.com", To: "b@example.com", Subject: "s", Text: "t", HTML: "<p>t</p>"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, dialer.sent, 1)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestSMTPErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{&textproto.Error{Code: 535, Msg: "authentication failed"}, KindAuth},
		{&textproto.Error{Code: 550, Msg: "mailbox unavailable"}, KindRejected},
		{&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, KindConnection},
		{timeoutErr{}, KindTimeout},
		{context.DeadlineExceeded, KindTimeout},
		{errors.New("smtp auth failed"), KindAuth},
		{errors.New("weird"), KindUnknown},
	}

	for _, c := range cases {
		sender := &SMTPSender{client: &fakeDialer{err: c.err}}
		_, err := sender.Send(context.Background(), testMsg)

		var emailErr *Error
		require.ErrorAs(t, err, &emailErr)
		assert.Equal(t, c.want, emailErr.Kind, c.err.Error())
		assert.Equal(t, ProviderSMTP, emailErr.Provider)
	}
}
