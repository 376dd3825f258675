package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

// EmailService emails the valuation result over SMTP (Gmail app-password
// auth), with an optional CC list from VALUATION_CC.
type EmailService struct {
	user string
	pass string
	host string
	port int
	cc   []string
}

// NewEmailService reads GMAIL_USER / GMAIL_APP_PASS / VALUATION_CC from the
// environment. Missing credentials make SendValuation fail (and the user
// gets the degraded acknowledgement), they never crash startup.
func NewEmailService() *EmailService {
	user := os.Getenv("GMAIL_USER")
	pass := os.Getenv("GMAIL_APP_PASS")
	if user == "" || pass == "" {
		log.Println("⚠️  GMAIL_USER or GMAIL_APP_PASS not set - valuation emails will fail")
	}

	var cc []string
	for _, addr := range strings.Split(os.Getenv("VALUATION_CC"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			cc = append(cc, addr)
		}
	}

	return &EmailService{
		user: user,
		pass: pass,
		host: "smtp.gmail.com",
		port: 587,
		cc:   cc,
	}
}

// SendValuation emails the formatted valuation to the user.
func (e *EmailService) SendValuation(toEmail, displayName, formattedValuation string) error {
	if e.user == "" || e.pass == "" {
		return fmt.Errorf("gmail credentials missing")
	}
	if toEmail == "" {
		return fmt.Errorf("no recipient email")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.user)
	m.SetHeader("To", toEmail)
	if len(e.cc) > 0 {
		m.SetHeader("Cc", e.cc...)
	}
	m.SetHeader("Subject", "Your App Valuation Estimate is Here!")
	m.SetBody("text/plain", fmt.Sprintf("Your App Valuation Estimate is: %s", formattedValuation))
	m.AddAlternative("text/html", valuationHTML(displayName, formattedValuation))

	d := gomail.NewDialer(e.host, e.port, e.user, e.pass)
	if err := d.DialAndSend(m); err != nil {
		return err
	}

	log.Printf("✅ Valuation email sent to %s (cc=%v)", toEmail, e.cc)
	return nil
}

func valuationHTML(name, formatted string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; background: #fff; border-radius:8px;">
  <p>Hi %s,</p>
  <p>Thank you for using our valuation tool. Based on the details you provided, here is your app's estimated valuation:</p>
  <div style="margin:20px 0;"><h2 style="font-size:28px;color:#007bff;">%s</h2></div>
  <p>Best regards,<br/>The Kalagato Team</p>
</div>`, name, formatted)
}

// FormatValuation renders the estimate range as a currency string, a single
// figure when min and max coincide.
func FormatValuation(min, max float64) string {
	if min == max {
		return formatUSD(min)
	}
	return fmt.Sprintf("%s to %s", formatUSD(min), formatUSD(max))
}

// formatUSD renders e.g. 12500 as "$12,500.00".
func formatUSD(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return sign + "$" + b.String() + fracPart
}
