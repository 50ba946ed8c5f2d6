// Package notify sends quality-report notifications to the farmer who
// requested the assessment. Delivery is best-effort and never affects the
// API response.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/store"
)

// Interfaces over the AWS clients so tests can mock delivery.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
}

type Notifier struct {
	config    Config
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
}

func New(config Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    log.With(map[string]interface{}{"component": "notifier"}),
	}
}

// QualityReportReady tells the requesting user their report is available.
// Email and SMS channels are attempted independently; failures are logged
// and swallowed.
func (n *Notifier) QualityReportReady(ctx context.Context, email, phone string, report *store.QualityReport) {
	subject := fmt.Sprintf("Quality report ready: %s", report.ProductName)
	body := fmt.Sprintf(
		"Your quality assessment for %s (%s) is complete.\n\nGrade: %s\nScore: %.0f/100\nMarket readiness: %s\nEstimated price: %s\n",
		report.ProductName, report.ProductType,
		report.QualityGrade, report.QualityScore,
		report.MarketReadiness, report.EstimatedPriceRange,
	)

	if n.config.EmailEnabled && email != "" {
		if err := n.sendEmail(ctx, email, subject, body); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"error":    err,
				"reportId": report.ID,
			})
		}
	}

	if n.config.SMSEnabled && phone != "" {
		sms := fmt.Sprintf("Mavuno: %s graded %s (%.0f/100). %s", report.ProductName, report.QualityGrade, report.QualityScore, report.EstimatedPriceRange)
		if err := n.sendSMS(ctx, phone, sms); err != nil {
			n.logger.Error("SMS send failed", map[string]interface{}{
				"error":    err,
				"reportId": report.ID,
			})
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
