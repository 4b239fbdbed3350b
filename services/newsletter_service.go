package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"wellness-dashboard-system/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"gorm.io/gorm"
)

var (
	ErrNoSubscribers = errors.New("no subscribed recipients found")
	ErrNoNewsletter  = errors.New("no newsletter issue found")
)

// PreviewFilePath is where the rendered HTML lands when sending fails, so the
// issue can still be eyeballed locally.
const PreviewFilePath = "preview-email.html"

// NewsletterService sends newsletter issues to the mirrored subscriber list
// via Amazon SES.
type NewsletterService struct {
	DB        *gorm.DB
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewNewsletterService creates the service. An empty fromEmail yields a
// disabled service that renders but never sends.
func NewNewsletterService(db *gorm.DB, awsRegion, fromEmail, fromName string) (*NewsletterService, error) {
	if fromEmail == "" {
		log.Println("Newsletter sending disabled: SES_FROM_EMAIL not configured")
		return &NewsletterService{DB: db, enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Newsletter service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &NewsletterService{
		DB:        db,
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether SES sending is configured.
func (s *NewsletterService) IsEnabled() bool {
	return s.enabled
}

// RenderNewsletterHTML renders one issue for a named recipient. Pure.
func RenderNewsletterHTML(n *models.Newsletter, recipientName string) string {
	if recipientName == "" {
		recipientName = "there"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #16a34a; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			%s
		</div>
		<div class="footer">
			<p>You are receiving this because you subscribed to our newsletter.</p>
		</div>
	</div>
</body>
</html>
`, n.Subject, recipientName, n.BodyHTML)
}

// LatestIssue returns the newest newsletter row, sent or not.
func (s *NewsletterService) LatestIssue() (*models.Newsletter, error) {
	var issue models.Newsletter
	if err := s.DB.Order("created_at DESC").First(&issue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoNewsletter
		}
		return nil, err
	}
	return &issue, nil
}

// SendLatest sends the newest issue to every subscribed recipient. When SES
// is disabled or every send fails, the rendered HTML is written to
// PreviewFilePath instead and an error is returned.
func (s *NewsletterService) SendLatest(ctx context.Context) (int, error) {
	issue, err := s.LatestIssue()
	if err != nil {
		return 0, err
	}

	var subscribers []models.Subscriber
	if err := s.DB.Where("subscribed = ?", true).Find(&subscribers).Error; err != nil {
		return 0, err
	}
	if len(subscribers) == 0 {
		return 0, ErrNoSubscribers
	}

	if !s.enabled {
		if err := s.writePreview(issue); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("newsletter sending disabled; preview written to %s", PreviewFilePath)
	}

	sent := 0
	var lastErr error
	for _, sub := range subscribers {
		html := RenderNewsletterHTML(issue, sub.Name)
		if err := s.sendEmail(ctx, sub.Email, issue.Subject, html); err != nil {
			log.Printf("❌ Newsletter send failed for %s: %v", sub.Email, err)
			lastErr = err
			continue
		}
		sent++
	}

	if sent == 0 {
		if err := s.writePreview(issue); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("all sends failed (preview written to %s): %w", PreviewFilePath, lastErr)
	}

	now := time.Now()
	issue.Status = models.NewsletterStatusSent
	issue.SentAt = &now
	if err := s.DB.Save(issue).Error; err != nil {
		log.Printf("DB Error marking newsletter sent: %v", err)
	}

	log.Printf("📧 Newsletter %q sent to %d/%d subscriber(s)", issue.Subject, sent, len(subscribers))
	return sent, nil
}

// SendTest sends the newest issue to a single address without marking it sent.
func (s *NewsletterService) SendTest(ctx context.Context, toEmail string) error {
	issue, err := s.LatestIssue()
	if err != nil {
		return err
	}
	html := RenderNewsletterHTML(issue, "")
	if !s.enabled {
		if err := s.writePreview(issue); err != nil {
			return err
		}
		return fmt.Errorf("newsletter sending disabled; preview written to %s", PreviewFilePath)
	}
	if err := s.sendEmail(ctx, toEmail, "[TEST] "+issue.Subject, html); err != nil {
		if werr := s.writePreview(issue); werr != nil {
			return werr
		}
		return fmt.Errorf("test send failed (preview written to %s): %w", PreviewFilePath, err)
	}
	return nil
}

func (s *NewsletterService) writePreview(issue *models.Newsletter) error {
	html := RenderNewsletterHTML(issue, "")
	if err := os.WriteFile(PreviewFilePath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", PreviewFilePath, err)
	}
	log.Printf("📝 Wrote newsletter preview to %s", PreviewFilePath)
	return nil
}

func (s *NewsletterService) sendEmail(ctx context.Context, toEmail, subject, htmlBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	return nil
}
