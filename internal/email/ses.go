package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const sesCharset = "UTF-8"

// sesAPI is the subset of the SES client used by SESMailer
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer delivers messages through Amazon SES.
// The sender address must be verified with SES.
type SESMailer struct {
	client sesAPI
	from   Sender
}

// NewSESMailer wraps an existing SES client
func NewSESMailer(client sesAPI, from Sender) *SESMailer {
	return &SESMailer{client: client, from: from}
}

// NewSESClient builds an SES client for region. Static credentials are used
// when both keys are set, otherwise the default AWS credential chain applies.
func NewSESClient(ctx context.Context, region, accessKeyID, secretAccessKey string) (*ses.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return ses.NewFromConfig(awsCfg), nil
}

// Send submits msg to SES
func (s *SESMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	content := &types.Content{Data: aws.String(msg.Body), Charset: aws.String(sesCharset)}
	body := &types.Body{}
	if msg.IsHTML() {
		body.Html = content
	} else {
		body.Text = content
	}

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from.String()),
		Destination: &types.Destination{
			ToAddresses: msg.To,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(sesCharset)},
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}

	return nil
}
