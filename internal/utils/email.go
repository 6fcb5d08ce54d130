package utils

import (
	"bytes"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
)

// ConfirmationMailer envoie l'e-mail de confirmation de commande avec la
// facture PDF en pièce jointe. Implémente payement.Mailer.
type ConfirmationMailer struct {
	Cfg *config.Config
}

func NewConfirmationMailer(cfg *config.Config) *ConfirmationMailer {
	return &ConfirmationMailer{Cfg: cfg}
}

func (m *ConfirmationMailer) SendOrderConfirmation(order *models.Order) error {
	html := GenerateOrderConfirmationHTML(order)

	pdf, err := GenerateInvoicePDF(m.Cfg.FrontendInvoiceURL, order)
	if err != nil {
		// la facture ne doit jamais bloquer la confirmation
		log.Println("❌ Erreur génération PDF :", err)
		pdf = nil
	}

	return m.send(order.Email, "Confirmation de votre commande", html, pdf)
}

func (m *ConfirmationMailer) send(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From(m.Cfg.MailFrom); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(m.Cfg.SMTPHost,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.Cfg.SMTPUsername),
		mail.WithPassword(m.Cfg.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande
func GenerateOrderConfirmationHTML(order *models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, item.Name, item.Quantity, item.UnitPrice, item.UnitPrice*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour,</p>
		<p>Votre paiement a bien été reçu. Récapitulatif de la commande <strong>%s</strong> :</p>
		<table width="100%%" cellpadding="6" style="border-collapse: collapse;">
			<tr style="background-color: #f0f0f0;">
				<th align="left">Produit</th>
				<th align="left">Qté</th>
				<th align="left">Prix</th>
				<th align="left">Total</th>
			</tr>%s
		</table>
		<p style="font-size: 18px;"><strong>Total : %.2f€</strong></p>
		<p>Merci pour votre confiance.</p>
	</div>
</body>
</html>`, order.ID, itemsHTML, order.TotalPrice)
}
