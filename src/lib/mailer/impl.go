package mailer

import (
	"log"
	"os"

	"hyggely/src/lib"
	awslib "hyggely/src/lib/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Sender delivers a single message through whichever transport is configured.
type Sender interface {
	Send(input *lib.SendMailInput) error
}

type SMTPSender struct{}

func (SMTPSender) Send(input *lib.SendMailInput) error {
	return lib.SendMail(input)
}

type SESSender struct{}

func (SESSender) Send(input *lib.SendMailInput) error {
	charset := "UTF-8"
	body := &sestypes.Body{}
	content := &sestypes.Content{Data: aws.String(input.Body), Charset: aws.String(charset)}
	if input.Html {
		body.Html = content
	} else {
		body.Text = content
	}
	message := &sestypes.Message{
		Subject: &sestypes.Content{Data: aws.String(input.Subject), Charset: aws.String(charset)},
		Body:    body,
	}
	destination := &sestypes.Destination{ToAddresses: input.To}
	return awslib.SESSendMessage(aws.String(input.From), destination, message)
}

var sender Sender

// NewSender replaces the configured transport, used by tests to swap in a fake.
func NewSender(s Sender) Sender {
	sender = s
	return sender
}

func getSender() Sender {
	if sender != nil {
		return sender
	}
	driver := os.Getenv("MAIL_DRIVER")
	if driver == "ses" {
		sender = SESSender{}
	} else {
		sender = SMTPSender{}
	}
	log.Printf("Mailer initialized with driver: %T\n", sender)
	return sender
}

func Send(input *lib.SendMailInput) error {
	if input.From == "" {
		input.From = os.Getenv("MAIL_FROM")
	}
	if input.FromName == "" {
		input.FromName = os.Getenv("MAIL_FROM_NAME")
	}
	return getSender().Send(input)
}
