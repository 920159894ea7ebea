package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"redcreativa/internal/config"
	"redcreativa/internal/logger"
)

type IMailService interface {
	SendConfirmationEmail(ctx context.Context, to, name, token string) error
	SendSubscriptionReceipt(ctx context.Context, to, planName string, endsAt time.Time) error
}

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendgridMailService struct {
	cfg     config.MailConfig
	client  mailSender
	htmlTpl *template.Template
	textTpl *texttemplate.Template
}

// NewMailService returns a service that logs and skips every send when no
// SendGrid key is configured.
func NewMailService(cfg config.MailConfig) IMailService {
	var client mailSender
	if cfg.SendGridAPIKey != "" {
		client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return newMailService(cfg, client)
}

func newMailService(cfg config.MailConfig, client mailSender) *sendgridMailService {
	return &sendgridMailService{
		cfg:     cfg,
		client:  client,
		htmlTpl: template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl: texttemplate.Must(texttemplate.New("text").Parse(plainTextTemplate)),
	}
}

func (s *sendgridMailService) SendConfirmationEmail(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/api/auth/confirm?token=%s", strings.TrimRight(s.cfg.AppBaseURL, "/"), url.QueryEscape(token))
	greeting := "Welcome!"
	if name != "" {
		greeting = fmt.Sprintf("Welcome, %s!", name)
	}

	return s.deliver(ctx, to, name, EmailData{
		Title:     "Confirm your email",
		Intro:     greeting + " Confirm your email address to finish creating your account. The link expires in 24 hours.",
		ButtonURL: link,
		ButtonTxt: "Confirm email",
	})
}

func (s *sendgridMailService) SendSubscriptionReceipt(ctx context.Context, to, planName string, endsAt time.Time) error {
	return s.deliver(ctx, to, "", EmailData{
		Title: "Your subscription is active",
		Intro: fmt.Sprintf("Thanks for subscribing to %s. Your premium access is valid until %s.", planName, endsAt.UTC().Format("January 2, 2006")),
	})
}

type EmailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f5f3ff; color: #1f1147; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .wrapper { width: 100%; padding: 40px 16px; box-sizing: border-box; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 16px; overflow: hidden; box-shadow: 0 20px 60px rgba(76, 29, 149, 0.12); }
    .header { padding: 28px 32px; background: linear-gradient(135deg, #6d28d9 0%, #db2777 100%); }
    .brand { font-weight: 700; font-size: 20px; color: #ffffff; letter-spacing: 0.5px; }
    .hero { padding: 36px 32px; }
    h1 { margin: 0 0 16px; font-size: 26px; }
    p { margin: 0 0 20px; line-height: 1.7; color: #4c4566; font-size: 16px; }
    .btn { display: inline-block; padding: 14px 28px; background: #6d28d9; color: #ffffff !important; text-decoration: none; border-radius: 10px; font-weight: 600; }
    .muted { color: #7c7396; font-size: 13px; word-break: break-all; }
    .footer { padding: 20px 32px; color: #7c7396; font-size: 13px; text-align: center; border-top: 1px solid #ede9fe; }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header"><div class="brand">{{.AppName}}</div></div>
      <div class="hero">
        <h1>{{.Title}}</h1>
        <p>{{.Intro}}</p>
        {{if .ButtonURL}}
          <p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>
          <p class="muted">If the button doesn't work, paste this link into your browser:<br>{{.ButtonURL}}</p>
        {{end}}
      </div>
      <div class="footer">© {{.Year}} {{.AppName}}</div>
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{if .ButtonURL}}
{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *sendgridMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func (s *sendgridMailService) deliver(ctx context.Context, to, toName string, data EmailData) error {
	const op = "services.MailService.deliver"

	if s.client == nil {
		logger.Warn("sendgrid api key not configured, skipping email",
			zap.String("to", to), zap.String("subject", data.Title))
		return nil
	}

	data.AppName = s.cfg.FromName
	data.Year = time.Now().Year()
	html, text, err := s.renderEmail(data)
	if err != nil {
		return fmt.Errorf("%s: render: %w", op, err)
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	message := mail.NewSingleEmail(from, data.Title, mail.NewEmail(toName, to), text, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: sendgrid status %d: %s", op, resp.StatusCode, resp.Body)
	}

	logger.Info("email sent", zap.String("to", to), zap.Int("status", resp.StatusCode))
	return nil
}
