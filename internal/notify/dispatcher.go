package notify

import (
	"context"
	"fmt"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

// GatewayDispatcher доставляет уведомления через внешние шлюзы
// по каналу события (email или sms)
type GatewayDispatcher struct {
	emailClient EmailClient
	smsClient   SMSClient
	logger      Logger
}

// NewGatewayDispatcher создает новый диспетчер уведомлений
func NewGatewayDispatcher(emailClient EmailClient, smsClient SMSClient, logger Logger) *GatewayDispatcher {
	return &GatewayDispatcher{
		emailClient: emailClient,
		smsClient:   smsClient,
		logger:      logger,
	}
}

// Dispatch отправляет одно уведомление
// Ошибка доставки не фатальна для бизнес-операции: событие остаётся
// в outbox и будет повторено воркером
func (d *GatewayDispatcher) Dispatch(ctx context.Context, event *domain.NotificationEvent) error {
	msg, err := BuildMessage(event)
	if err != nil {
		return err
	}

	switch event.Channel {
	case domain.ChannelEmail:
		if err := d.emailClient.Send(ctx, event.Recipient, msg.Subject, msg.Body); err != nil {
			return fmt.Errorf("%w: event=%s email to %s: %v", ErrDispatch, event.ID, event.Recipient, err)
		}
	case domain.ChannelSMS:
		if err := d.smsClient.Send(ctx, event.Recipient, msg.Body); err != nil {
			return fmt.Errorf("%w: event=%s sms to %s: %v", ErrDispatch, event.ID, event.Recipient, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChannel, event.Channel)
	}

	d.logger.Info("Dispatch: event=%s kind=%s channel=%s delivered to %s", event.ID, event.Kind, event.Channel, event.Recipient)
	return nil
}
