package services

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/example/vihara/internal/config"
	"github.com/example/vihara/internal/models"
)

// MailerService sends transactional email over SMTP. When SMTP is not
// configured every send becomes a logged no-op so payment and
// registration flows keep working in development.
type MailerService struct {
	cfg    *config.Config
	dialer *gomail.Dialer
}

func NewMailerService(cfg *config.Config) *MailerService {
	s := &MailerService{cfg: cfg}
	if cfg.MailConfigured() {
		s.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	} else {
		log.Println("[Mailer] SMTP not configured, emails will be skipped")
	}
	return s
}

// Enabled reports whether mail will actually be delivered.
func (s *MailerService) Enabled() bool {
	return s.dialer != nil
}

// SendReceipt emails a payment receipt for a settled transaction.
func (s *MailerService) SendReceipt(trx *models.PaymentTransaction) error {
	if trx.Email == "" {
		return nil
	}

	var kindLabel string
	switch trx.Kind {
	case models.KindDonation:
		kindLabel = "Donasi"
	case models.KindMerchandise:
		kindLabel = "Pembelian Merchandise"
	case models.KindPackage:
		kindLabel = "Paket Sumbangan"
	default:
		kindLabel = "Pembayaran"
	}

	subject := fmt.Sprintf("Pembayaran Berhasil - %s", trx.EntityName)
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(fmt.Sprintf("<h2>Terima kasih, %s!</h2>", trx.BuyerName))
	b.WriteString(fmt.Sprintf("<p>Pembayaran Anda untuk <b>%s</b> telah kami terima.</p>", trx.EntityName))
	b.WriteString("<table cellpadding=\"6\" style=\"border-collapse: collapse;\">")
	b.WriteString(fmt.Sprintf("<tr><td>Jenis</td><td><b>%s</b></td></tr>", kindLabel))
	b.WriteString(fmt.Sprintf("<tr><td>Nomor Order</td><td><b>%s</b></td></tr>", trx.GatewayOrderID))
	if trx.Quantity > 1 {
		b.WriteString(fmt.Sprintf("<tr><td>Jumlah</td><td><b>%d</b></td></tr>", trx.Quantity))
	}
	b.WriteString(fmt.Sprintf("<tr><td>Total</td><td><b>Rp %s</b></td></tr>", FormatAmount(trx.Amount)))
	if trx.GatewayPaymentMethod != "" {
		b.WriteString(fmt.Sprintf("<tr><td>Metode</td><td><b>%s</b></td></tr>", trx.GatewayPaymentMethod))
	}
	b.WriteString("</table>")
	b.WriteString("<p>Semoga kebajikan ini membawa berkah.</p>")
	b.WriteString("</div>")

	return s.send(trx.Email, subject, b.String(), nil)
}

// SendRegistrationQR emails the attendance QR code for an event
// registration. The PNG is attached inline and referenced by cid.
func (s *MailerService) SendRegistrationQR(reg *models.Registration, qrPNG []byte) error {
	if reg.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("QR Code Kehadiran - %s", reg.EventName)
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; text-align: center;">`)
	b.WriteString(fmt.Sprintf("<h2>Halo, %s!</h2>", reg.FullName))
	b.WriteString(fmt.Sprintf("<p>Berikut QR code kehadiran Anda untuk acara <b>%s</b>.</p>", reg.EventName))
	b.WriteString(`<img src="cid:qrcode" alt="QR Code" style="width: 300px; height: 300px;"/>`)
	b.WriteString("<p>Tunjukkan QR code ini kepada petugas saat hadir.</p>")
	b.WriteString("</div>")

	return s.send(reg.Email, subject, b.String(), qrPNG)
}

func (s *MailerService) send(to, subject, htmlBody string, inlineQR []byte) error {
	if s.dialer == nil {
		log.Printf("[Mailer] skipped email to %s: %s", to, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.EmailFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if inlineQR != nil {
		msg.Embed("qrcode.png",
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(inlineQR)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-ID": {"<qrcode>"}}),
		)
	}

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// FormatAmount renders a rupiah amount with dot thousand separators.
func FormatAmount(amount float64) string {
	str := strconv.FormatFloat(amount, 'f', 0, 64)
	neg := strings.HasPrefix(str, "-")
	if neg {
		str = str[1:]
	}
	var parts []string
	for len(str) > 3 {
		parts = append([]string{str[len(str)-3:]}, parts...)
		str = str[:len(str)-3]
	}
	parts = append([]string{str}, parts...)
	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}
