package email

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/Dan9191/taxflow/internal/config"
	"github.com/Dan9191/taxflow/internal/models"
	"github.com/Dan9191/taxflow/internal/report"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendTaxReport mails the text summary of calc with the XML report attached
func (s *Sender) SendTaxReport(to string, calc *models.Calculation) error {
	e, err := s.buildTaxReport(to, calc)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send tax report to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) buildTaxReport(to string, calc *models.Calculation) (*email.Email, error) {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Tax Computation for %s", calc.PAN)

	body := "Dear Taxpayer,\n\n"
	body += fmt.Sprintf("Your tax computation of %s is below.\n\n",
		calc.CalculatedAt.Format("2006-01-02 15:04"))
	body += report.Text(calc)
	body += "\nThe full computation is attached as XML.\n"
	body += "\nBest regards,\nTaxFlow"
	e.Text = []byte(body)

	xml, err := report.XML(calc)
	if err != nil {
		return nil, err
	}
	filename := fmt.Sprintf("tax-report-%s.xml", calc.PAN)
	if _, err := e.Attach(bytes.NewReader(xml), filename, "application/xml"); err != nil {
		return nil, fmt.Errorf("failed to attach report: %w", err)
	}
	return e, nil
}
