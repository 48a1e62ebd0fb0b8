// Package email is the outbound notification dispatcher: a Sender
// interface with a Postmark implementation for production and a log-only
// sender for development, plus the HTML templates for the verification and
// password reset mails.
package email
