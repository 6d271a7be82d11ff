package email

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// Client sends transactional mail over SMTP.
type Client struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
}

// NewClient builds an SMTP client.
func NewClient(host string, port int, user, password, fromName, fromEmail string) (*Client, error) {
	if host == "" || fromEmail == "" {
		return nil, fmt.Errorf("smtp host and from address are required")
	}
	return &Client{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// SendEmail delivers one HTML message.
func (c *Client) SendEmail(to, subject, htmlBody string) error {
	m := mail.NewMsg()

	if err := m.From(fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName: c.host,
		}),
	)
	if err != nil {
		return fmt.Errorf("creating smtp client (host=%s port=%d): %w", c.host, c.port, err)
	}

	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("sending mail (host=%s port=%d): %w", c.host, c.port, err)
	}
	return nil
}

// ConfirmationBody renders the booking confirmation message.
func ConfirmationBody(guestName, number, roomNumber string, checkIn, checkOut time.Time, total float64) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"></head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
	<table width="100%%" cellpadding="0" cellspacing="0" style="padding: 20px;">
		<tr><td align="center">
			<table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
				<tr>
					<td style="background-color: #2c3e50; padding: 30px 20px; text-align: center;">
						<h1 style="color: #ffffff; margin: 0; font-size: 24px;">Booking Confirmed</h1>
					</td>
				</tr>
				<tr>
					<td style="padding: 30px;">
						<p style="color: #333;">Hello %s,</p>
						<p style="color: #333;">Your booking is confirmed. Keep this number for check-in:</p>
						<div style="background-color: #f8f9fa; border-left: 4px solid #2c3e50; padding: 16px; margin: 20px 0;">
							<table width="100%%" cellpadding="0" cellspacing="0">
								<tr><td style="padding: 6px 0;"><strong>Booking number:</strong></td><td style="padding: 6px 0; text-align: right;">%s</td></tr>
								<tr><td style="padding: 6px 0;"><strong>Room:</strong></td><td style="padding: 6px 0; text-align: right;">%s</td></tr>
								<tr><td style="padding: 6px 0;"><strong>Check-in:</strong></td><td style="padding: 6px 0; text-align: right;">%s</td></tr>
								<tr><td style="padding: 6px 0;"><strong>Check-out:</strong></td><td style="padding: 6px 0; text-align: right;">%s</td></tr>
								<tr><td style="padding: 6px 0;"><strong>Total:</strong></td><td style="padding: 6px 0; text-align: right;">$%.2f</td></tr>
							</table>
						</div>
						<p style="color: #666; font-size: 13px;">This is an automated message, please do not reply.</p>
					</td>
				</tr>
			</table>
		</td></tr>
	</table>
</body>
</html>`,
		guestName,
		number,
		roomNumber,
		checkIn.Format("02/01/2006 15:04"),
		checkOut.Format("02/01/2006 15:04"),
		total,
	)
}
