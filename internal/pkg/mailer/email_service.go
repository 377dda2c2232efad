package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWithdrawalProcessing(toEmail string, amount float64) error
	SendWithdrawalCompleted(toEmail string, amount float64) error
	SendWithdrawalFailed(toEmail string, amount float64, reason string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) SendWithdrawalProcessing(toEmail string, amount float64) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Withdrawal In Progress</h2>
			<p>Your withdrawal of <strong>&#8358;%.2f</strong> has been accepted and is being processed.</p>
			<p>You will receive another email once the transfer completes.</p>
		</div>
	`, amount)
	return s.send(toEmail, "Your withdrawal is processing", body)
}

func (s *emailService) SendWithdrawalCompleted(toEmail string, amount float64) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Withdrawal Completed</h2>
			<p>Your withdrawal of <strong>&#8358;%.2f</strong> has been paid out to your bank account.</p>
		</div>
	`, amount)
	return s.send(toEmail, "Your withdrawal is complete", body)
}

func (s *emailService) SendWithdrawalFailed(toEmail string, amount float64, reason string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Withdrawal Failed</h2>
			<p>Your withdrawal of <strong>&#8358;%.2f</strong> could not be completed.</p>
			<p>Reason: %s</p>
			<p>The funds have been returned to your referral balance. You can retry at any time.</p>
		</div>
	`, amount, reason)
	return s.send(toEmail, "Your withdrawal failed, funds returned", body)
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] %q sent to %s\n", subject, toEmail)
	return nil
}
