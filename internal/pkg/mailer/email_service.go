package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTeamInvite(toEmail, teamName, managerName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderEmail, clientURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		clientURL:   clientURL,
	}
}

func (s *emailService) SendTeamInvite(toEmail, teamName, managerName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("You've been added to %s", teamName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to %s!</h2>
			<p>%s added you to the team. Your tracked time on team projects is now
			visible to the team manager.</p>
			<p><a href="%s/teams">Open your teams</a></p>
		</div>
	`, teamName, managerName, s.clientURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send invite to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Team invite sent to %s\n", toEmail)
	return nil
}
