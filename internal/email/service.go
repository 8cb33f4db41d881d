package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/agendaflow/agenda-api/internal/config"
	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/pkg/logger"
)

// Service sends transactional mail. Delivery is best effort: booking flows
// never fail because the mail server is down.
type Service struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewService(cfg config.SMTPConfig, logger *logger.Logger) *Service {
	return &Service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// SendBookingConfirmation mails the visitor after a successful public booking.
// Appointments without a patient email are skipped silently.
func (s *Service) SendBookingConfirmation(appt *model.Appointment, profile *model.Profile) error {
	if appt.PatientEmail == nil || *appt.PatientEmail == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", *appt.PatientEmail)
	m.SetHeader("Subject", fmt.Sprintf("Appointment confirmed with %s", profile.Name))
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Your appointment is booked</h2>
		<p>Hello %s,</p>
		<p>Your appointment with <strong>%s</strong> is scheduled for
		<strong>%s</strong> (%d minutes).</p>
		<p>If you need to change it, please contact the practice directly.</p>
	`,
		appt.PatientName,
		profile.Name,
		appt.StartAt.Format("Monday, 02 Jan 2006 at 15:04"),
		appt.DurationMinutes,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}

	s.logger.Info("booking confirmation sent", "appointment_id", appt.ID.String())
	return nil
}
