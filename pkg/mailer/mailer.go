// Package mailer sends the platform's transactional email: lead
// notifications to the sales inbox and password reset links to users.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/urbannest/urbannest/pkg/config"
)

type Interface interface {
	SendLeadNotification(name, email, phone, message string) error
	SendPasswordReset(to, link string) error
	SendLoginCode(to, code string) error
}

type mailer struct {
	cfg config.SMTP
}

func New(cfg config.SMTP) Interface {
	return &mailer{cfg: cfg}
}

func (m *mailer) send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendLeadNotification tells the sales inbox a new customer signed up.
func (m *mailer) SendLeadNotification(name, email, phone, message string) error {
	if phone == "" {
		phone = "not provided"
	}
	body := fmt.Sprintf(`
		<h3>New customer lead</h3>
		<p><b>Name:</b> %s</p>
		<p><b>Email:</b> %s</p>
		<p><b>Phone:</b> %s</p>
		<p><b>Looking for:</b> %s</p>`,
		name, email, phone, message)
	return m.send(m.cfg.Notify, "New lead: "+name, body)
}

// SendLoginCode is the fallback delivery channel for one-time login codes
// when the SMS gateway is down or unconfigured.
func (m *mailer) SendLoginCode(to, code string) error {
	body := fmt.Sprintf(`
		<p>Your UrbanNest login code is <b>%s</b>.</p>
		<p>It expires in 5 minutes.</p>`,
		code)
	return m.send(to, "Your login code", body)
}

// SendPasswordReset mails a one-time reset link. The link embeds a token that
// expires server-side; the mail itself carries no secret beyond it.
func (m *mailer) SendPasswordReset(to, link string) error {
	body := fmt.Sprintf(`
		<p>A password reset was requested for your account.</p>
		<p><a href="%s">Reset your password</a></p>
		<p>The link expires in one hour. If you did not request this, ignore this mail.</p>`,
		link)
	return m.send(to, "Reset your password", body)
}
