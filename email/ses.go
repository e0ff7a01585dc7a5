package email

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
)

const ProviderSES = "ses"

type SESSender struct {
	svc sesiface.SESAPI
}

func NewSESSender(region, accessKeyId, secretAccessKey string) (*SESSender, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if accessKeyId != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKeyId, secretAccessKey, "")
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating AWS session: %v", err)
	}

	return &SESSender{svc: ses.New(sess)}, nil
}

func NewSESSenderWithClient(svc sesiface.SESAPI) *SESSender {
	return &SESSender{svc: svc}
}

func (s *SESSender) Name() string {
	return ProviderSES
}

func (s *SESSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := validate(ProviderSES, msg); err != nil {
		return "", err
	}

	body := &ses.Body{
		Text: &ses.Content{
			Charset: aws.String("UTF-8"),
			Data:    aws.String(msg.Text),
		},
	}
	if msg.HTML != "" {
		body.Html = &ses.Content{
			Charset: aws.String("UTF-8"),
			Data:    aws.String(msg.HTML),
		}
	}

	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: []*string{
				aws.String(msg.To),
			},
		},
		Message: &ses.Message{
			Body: body,
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(msg.Subject),
			},
		},
		Source: aws.String(msg.From),
	}

	out, err := s.svc.SendEmailWithContext(ctx, input)
	if err != nil {
		log.Printf("Error sending email via SES: %v\n", err)
		return "", &Error{Kind: classifySES(err), Provider: ProviderSES, Err: err}
	}

	return aws.StringValue(out.MessageId), nil
}

func classifySES(err error) Kind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return KindUnknown
	}

	switch aerr.Code() {
	case ses.ErrCodeMessageRejected,
		ses.ErrCodeMailFromDomainNotVerifiedException,
		ses.ErrCodeAccountSendingPausedException:
		return KindRejected
	case ses.ErrCodeConfigurationSetDoesNotExistException,
		ses.ErrCodeConfigurationSetSendingPausedException,
		"MissingRegion", "InvalidParameterValue":
		return KindConfig
	case "InvalidClientTokenId", "UnrecognizedClientException", "SignatureDoesNotMatch",
		"IncompleteSignature", "AccessDenied", "AccessDeniedException", "NoCredentialProviders":
		return KindAuth
	case request.ErrCodeResponseTimeout:
		return KindTimeout
	case request.ErrCodeRequestError, request.CanceledErrorCode:
		if orig := aerr.OrigErr(); orig != nil {
			if errors.As(orig, &netErr) && netErr.Timeout() {
				return KindTimeout
			}
		}
		return KindConnection
	}

	return KindUnknown
}
