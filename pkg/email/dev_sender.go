package email

import (
	"context"
	"log/slog"
)

// DevSender implements Sender for local development. It logs the mail
// instead of sending it, so OTP codes show up in the server output.
type DevSender struct {
	log *slog.Logger
}

// NewDevSender creates a development email sender writing to the logger.
func NewDevSender(log *slog.Logger) Sender {
	return &DevSender{log: log}
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	d.log.InfoContext(ctx, "dev mail (not sent)",
		slog.String("send_to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
		slog.String("body_html", params.BodyHTML),
	)
	return nil
}
