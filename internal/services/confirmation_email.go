package services

import (
	"fmt"

	"github.com/soltur/backoffice/pkg/mailer"
)

// Shared header for all transactional mail
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #e8871e; margin: 0;">Soltur</h2>
		</div>
`

// Shared footer for all transactional mail
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>Ta wiadomość została wygenerowana automatycznie, prosimy na nią nie odpowiadać.</p>
			<p>© 2026 Soltur Sp. z o.o. Wszelkie prawa zastrzeżone.</p>
		</div>
	</div>
</body>
</html>
`

// buildConfirmationEmail assembles the booking confirmation message with the
// reference and the self-service link.
func buildConfirmationEmail(bookingRef, bookingURL, to, tripTitle string) *mailer.Message {
	subject := fmt.Sprintf("Potwierdzenie rezerwacji %s - Soltur", bookingRef)

	html := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Dziękujemy za rezerwację!</h1>
					<p>Twoja rezerwacja na wycieczkę <strong>%s</strong> została przyjęta.</p>
					<p>Numer rezerwacji: <strong>%s</strong></p>
					<p>Szczegóły rezerwacji oraz status płatności znajdziesz na swojej stronie rezerwacji:</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s" style="background-color: #e8871e; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Moja rezerwacja</a>
					</div>
					<p>Pozdrawiamy,<br>Zespół Soltur</p>
				</div>`+emailFooter,
		tripTitle, bookingRef, bookingURL)

	text := fmt.Sprintf(
		"Dziękujemy za rezerwację!\n\nWycieczka: %s\nNumer rezerwacji: %s\n\nSzczegóły: %s\n\nZespół Soltur",
		tripTitle, bookingRef, bookingURL)

	return &mailer.Message{
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
	}
}
