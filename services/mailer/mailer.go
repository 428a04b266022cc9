// institution-portal/services/mailer/mailer.go
package mailer

import (
	"fmt"
	"log/slog"
)

// Mailer delivers notification email. Delivery is fire-and-forget: handlers
// spawn it in a goroutine, failures are logged and never surfaced to the
// HTTP caller.
type Mailer interface {
	Send(to, name, subject, html string) error
}

// OTPBody renders the verification-code email shared by signup and
// password-reset flows.
func OTPBody(name, code, subject string) string {
	return fmt.Sprintf(`
	<div style="font-family: sans-serif; text-align: center; padding: 20px;">
		<h2>%s</h2>
		<p>Hello %s, your code is: <strong>%s</strong></p>
	</div>`, subject, name, code)
}

// ConsoleMailer logs messages instead of sending them; the development and
// test implementation.
type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer { return &ConsoleMailer{} }

func (m *ConsoleMailer) Send(to, name, subject, html string) error {
	slog.Info("Email (console)", "to", to, "name", name, "subject", subject)
	return nil
}
