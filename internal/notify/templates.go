package notify

import (
	"fmt"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

const brandName = "CarWash Pro"

// Message готовое к отправке уведомление
// Subject используется только для email
type Message struct {
	Subject string
	Body    string
}

// BuildMessage собирает текст уведомления по виду события и каналу доставки
func BuildMessage(e *domain.NotificationEvent) (Message, error) {
	date := e.ScheduledAt.Format("Jan 2, 2006")
	clock := e.ScheduledAt.Format("15:04")

	switch e.Channel {
	case domain.ChannelSMS:
		return Message{Body: smsText(e, date, clock)}, nil
	case domain.ChannelEmail:
		subject, body := emailText(e, date, clock)
		return Message{Subject: subject, Body: body}, nil
	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownChannel, e.Channel)
	}
}

func smsText(e *domain.NotificationEvent, date, clock string) string {
	switch e.Kind {
	case domain.EventCreated:
		return fmt.Sprintf("Hi %s! We've received your %s booking request for %s at %s. We'll confirm it shortly. - %s",
			e.CustomerName, e.ServiceName, date, clock, brandName)
	case domain.EventConfirmed:
		return fmt.Sprintf("Hi %s! Your %s booking is confirmed for %s at %s. We'll send you updates as we prepare for your service. - %s",
			e.CustomerName, e.ServiceName, date, clock, brandName)
	case domain.EventStarted:
		return fmt.Sprintf("Hi %s! Your %s service has started. Our team is now working on your vehicle. - %s",
			e.CustomerName, e.ServiceName, brandName)
	case domain.EventCompleted:
		return fmt.Sprintf("Hi %s! Your %s service is complete! Thank you for choosing %s. We hope to serve you again soon.",
			e.CustomerName, e.ServiceName, brandName)
	case domain.EventCanceled:
		return fmt.Sprintf("Hi %s! Your %s booking for %s at %s has been canceled. - %s",
			e.CustomerName, e.ServiceName, date, clock, brandName)
	default:
		return fmt.Sprintf("Hi %s! There is an update on your %s booking. - %s", e.CustomerName, e.ServiceName, brandName)
	}
}

func emailText(e *domain.NotificationEvent, date, clock string) (subject, body string) {
	switch e.Kind {
	case domain.EventCreated:
		subject = fmt.Sprintf("Booking Received - %s | %s", e.ServiceName, brandName)
		body = fmt.Sprintf(
			"Hi %s,\n\nWe've received your car wash service booking request.\n\nBooking Details\nService: %s\nVehicle: %s\nDate & Time: %s at %s\nLocation: %s\n\nWe'll notify you as soon as your booking is confirmed.\nThank you for choosing %s!",
			e.CustomerName, e.ServiceName, e.VehicleInfo, date, clock, e.Location, brandName)
	case domain.EventConfirmed:
		subject = fmt.Sprintf("Booking Confirmed - %s | %s", e.ServiceName, brandName)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour car wash service booking has been confirmed!\n\nBooking Details\nService: %s\nVehicle: %s\nDate & Time: %s at %s\nLocation: %s\n\nWe'll send you updates as we prepare for your service.\nThank you for choosing %s!",
			e.CustomerName, e.ServiceName, e.VehicleInfo, date, clock, e.Location, brandName)
	case domain.EventStarted:
		subject = fmt.Sprintf("Service Started - %s | %s", e.ServiceName, brandName)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour %s service for %s has started. Our team is now working on your vehicle.\n\nThank you for choosing %s!",
			e.CustomerName, e.ServiceName, e.VehicleInfo, brandName)
	case domain.EventCompleted:
		subject = fmt.Sprintf("Service Completed - %s | %s", e.ServiceName, brandName)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour %s service for %s has been completed on %s.\n\nWe hope you're satisfied with our service! Please consider leaving us a review.\nThank you for choosing %s!",
			e.CustomerName, e.ServiceName, e.VehicleInfo, date, brandName)
	case domain.EventCanceled:
		subject = fmt.Sprintf("Booking Canceled - %s | %s", e.ServiceName, brandName)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour %s booking for %s scheduled on %s at %s has been canceled.\n\nThank you for choosing %s!",
			e.CustomerName, e.ServiceName, e.VehicleInfo, date, clock, brandName)
	default:
		subject = fmt.Sprintf("Booking Update - %s | %s", e.ServiceName, brandName)
		body = fmt.Sprintf("Hi %s,\n\nThere is an update on your %s booking.\n\nThank you for choosing %s!",
			e.CustomerName, e.ServiceName, brandName)
	}
	return subject, body
}
