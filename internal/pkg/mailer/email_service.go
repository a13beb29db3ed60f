package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendOTP(toEmail, otp string) error
	SendResetToken(toEmail, resetURL string) error
	SendLoginLink(toEmail, loginURL string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}
	return nil
}

func (s *emailService) SendOTP(toEmail, otp string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to DailyJournal!</h2>
			<p>Your verification code is:</p>
			<h1 style="color: #4CAF50; letter-spacing: 5px;">%s</h1>
			<p>This code will expire in 15 minutes.</p>
			<p>If you didn't request this, please ignore this email.</p>
		</div>
	`, otp)
	return s.send(toEmail, "Your Verification Code", body)
}

func (s *emailService) SendResetToken(toEmail, resetURL string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Password Reset</h2>
			<p><a href="%s">Click here to reset your password.</a></p>
			<p>This link will expire in 30 minutes. If you didn't request a reset, ignore this email.</p>
		</div>
	`, resetURL)
	return s.send(toEmail, "Reset Your Password", body)
}

func (s *emailService) SendLoginLink(toEmail, loginURL string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Sign in to DailyJournal</h2>
			<p><a href="%s">Click here to sign in.</a></p>
			<p>This link will expire in 10 minutes and can only be used once.</p>
		</div>
	`, loginURL)
	return s.send(toEmail, "Your Sign-in Link", body)
}
