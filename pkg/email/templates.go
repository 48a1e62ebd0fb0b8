package email

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Subjects for the two transactional mails this service sends.
const (
	SubjectVerification  = "Verify Your Work Notes Account"
	SubjectPasswordReset = "Reset Your Work Notes Password"
)

const codeMailTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; margin: 0; padding: 0; background-color: #f4f4f4; }
      .container { max-width: 600px; margin: 20px auto; padding: 20px; background: white; border-radius: 8px; }
      .header { text-align: center; padding: 20px 0; border-bottom: 2px solid #f0f0f0; }
      .header h1 { color: #4f46e5; margin: 0; font-size: 24px; }
      .content { padding: 20px 0; text-align: center; }
      .code { background: #f0f0f0; padding: 15px; border-radius: 4px; font-size: 24px; letter-spacing: 2px; color: #4f46e5; margin: 20px 0; font-family: monospace; }
      .warning { color: #dc2626; font-size: 14px; margin: 20px 0; padding: 10px; background: #fee2e2; border-radius: 4px; }
      .footer { text-align: center; color: #666; font-size: 12px; padding-top: 20px; border-top: 1px solid #f0f0f0; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header"><h1>Work Notes</h1></div>
      <div class="content">
        <h2>{{.Heading}}</h2>
        <p>{{.Intro}}</p>
        <div class="code">{{.Code}}</div>
        <p><strong>This code will expire in 10 minutes.</strong></p>
        {{if .Warning}}<div class="warning">{{.Warning}}</div>{{else}}<p>If you didn't request this verification, please ignore this email.</p>{{end}}
      </div>
      <div class="footer">
        <p>This is an automated message, please do not reply to this email.</p>
        <p>&copy; {{.Year}} Work Notes. All rights reserved.</p>
      </div>
    </div>
  </body>
</html>`

var codeMail = template.Must(template.New("code_mail").Parse(codeMailTemplate))

type codeMailData struct {
	Title   string
	Heading string
	Intro   string
	Code    string
	Warning string
	Year    int
}

func renderCodeMail(data codeMailData) (string, error) {
	var sb strings.Builder
	if err := codeMail.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render mail body: %w", err)
	}
	return sb.String(), nil
}

// SendVerificationCode delivers a signup verification OTP.
func SendVerificationCode(ctx context.Context, sender Sender, to, code string) error {
	body, err := renderCodeMail(codeMailData{
		Title:   "Email Verification",
		Heading: "Verify Your Email Address",
		Intro:   "Thanks for signing up! Please use the verification code below to complete your registration:",
		Code:    code,
		Year:    time.Now().Year(),
	})
	if err != nil {
		return err
	}

	return sender.SendEmail(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  SubjectVerification,
		BodyHTML: body,
		Tag:      "verification",
	})
}

// SendPasswordResetCode delivers a password reset OTP.
func SendPasswordResetCode(ctx context.Context, sender Sender, to, code string) error {
	body, err := renderCodeMail(codeMailData{
		Title:   "Password Reset",
		Heading: "Password Reset Request",
		Intro:   "We received a request to reset your password. Use the code below to set a new password:",
		Code:    code,
		Warning: "If you didn't request this password reset, please ignore this email or contact support if you're concerned about your account's security.",
		Year:    time.Now().Year(),
	})
	if err != nil {
		return err
	}

	return sender.SendEmail(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  SubjectPasswordReset,
		BodyHTML: body,
		Tag:      "password-reset",
	})
}
