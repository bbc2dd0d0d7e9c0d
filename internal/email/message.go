// Package email renders payment reminder messages. The ses and noop
// subpackages deliver them.
package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"faktura/internal/port"
)

// Message is a rendered reminder e-mail.
type Message struct {
	Subject  string
	TextBody string
	HTMLBody string
}

// StageTitle returns the German heading used for a reminder stage.
func StageTitle(stage int) string {
	switch stage {
	case 1:
		return "Zahlungserinnerung"
	case 2:
		return "1. Mahnung"
	default:
		return "Letzte Mahnung"
	}
}

// BuildReminder renders the reminder letter for a notice.
func BuildReminder(n port.PaymentReminderNotice) Message {
	title := StageTitle(n.Stage)
	subject := fmt.Sprintf("%s zur Rechnung %s", title, n.InvoiceNumber)
	due := n.DueDate.Format("02.01.2006")

	var text strings.Builder
	fmt.Fprintf(&text, "Guten Tag %s,\n\n", n.ToName)
	fmt.Fprintf(&text, "zu unserer Rechnung %s, fällig am %s, konnten wir noch keinen Zahlungseingang feststellen.\n", n.InvoiceNumber, due)
	if n.Fee.IsPositive() {
		fmt.Fprintf(&text, "Für diese %s berechnen wir eine Gebühr von %s.\n", title, FormatEUR(n.Fee))
	}
	fmt.Fprintf(&text, "Bitte überweisen Sie den offenen Betrag von %s umgehend.\n\n", FormatEUR(n.AmountDue))
	fmt.Fprintf(&text, "Mit freundlichen Grüßen\n%s\n", n.CompanyName)

	var body strings.Builder
	body.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
`)
	fmt.Fprintf(&body, "  <h2 style=\"color: #333;\">%s</h2>\n", html.EscapeString(title))
	fmt.Fprintf(&body, "  <p>Guten Tag %s,</p>\n", html.EscapeString(n.ToName))
	fmt.Fprintf(&body, "  <p>zu unserer Rechnung <strong>%s</strong>, fällig am %s, konnten wir noch keinen Zahlungseingang feststellen.</p>\n",
		html.EscapeString(n.InvoiceNumber), due)
	if n.Fee.IsPositive() {
		fmt.Fprintf(&body, "  <p>Für diese %s berechnen wir eine Gebühr von %s.</p>\n", html.EscapeString(title), FormatEUR(n.Fee))
	}
	fmt.Fprintf(&body, "  <p>Offener Betrag: <strong>%s</strong></p>\n", FormatEUR(n.AmountDue))
	body.WriteString(`  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
`)
	fmt.Fprintf(&body, "  <p style=\"color: #999; font-size: 12px;\">%s</p>\n</body>\n</html>", html.EscapeString(n.CompanyName))

	return Message{Subject: subject, TextBody: text.String(), HTMLBody: body.String()}
}

// FormatEUR formats an amount the German way, e.g. "1.234,50 €".
func FormatEUR(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := grouped.String() + "," + frac + " €"
	if neg {
		out = "-" + out
	}
	return out
}
