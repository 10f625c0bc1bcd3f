package email

import (
	"fmt"
	"net/smtp"

	"github.com/AlibabaClubCorporation/bank-app/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendCreditDebited notifies about a successful installment debit
func (s *Sender) SendCreditDebited(to, name string, creditID, amount int64) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your account has been debited %d for part of the credit %d.\n"+
			"The payment appears in your account history.\n",
		name, amount, creditID,
	)
	return s.send(to, "Credit Installment Debited", body)
}

// SendCreditEscalated notifies about a rate increase after a missed
// installment
func (s *Sender) SendCreditEscalated(to, name string, creditID int64) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"An installment of credit %d was missed and the interest rate has been increased.\n"+
			"The increased rate applies until the credit is fully repaid.\n"+
			"Please ensure sufficient funds are available in your account.\n",
		name, creditID,
	)
	return s.send(to, "Credit Interest Rate Increased", body)
}

// SendCreditBlocked notifies that the account was blocked and names the
// amount that lifts the block
func (s *Sender) SendCreditBlocked(to, name string, creditID, remaining int64) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your account has been blocked due to repeated non-payment of credit %d.\n"+
			"Purchases and transfers are suspended until the remaining debt of %d is paid in full.\n"+
			"Once the amount is available on the account it will be withdrawn and the account unblocked.\n",
		name, creditID, remaining,
	)
	return s.send(to, "Account Blocked Due to Credit Non-Payment", body)
}

func (s *Sender) send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body + "\nBest regards,\nBank Service")

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, subject)
	return nil
}
