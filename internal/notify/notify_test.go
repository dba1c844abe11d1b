package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type sentMessage struct {
	to      string
	subject string
	body    string
}

type fakeEmailClient struct {
	sent []sentMessage
	err  error
}

func (c *fakeEmailClient) Send(_ context.Context, to, subject, body string) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMessage{to: to, subject: subject, body: body})
	return nil
}

type fakeSMSClient struct {
	sent []sentMessage
	err  error
}

func (c *fakeSMSClient) Send(_ context.Context, to, message string) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMessage{to: to, body: message})
	return nil
}

func testEvent(kind domain.EventKind, channel domain.Channel) *domain.NotificationEvent {
	return &domain.NotificationEvent{
		ID:           "e-1",
		BookingID:    1,
		Kind:         kind,
		Channel:      channel,
		Recipient:    "ivan@example.com",
		CustomerName: "Ivan",
		ServiceName:  "Premium Wash",
		VehicleInfo:  "Toyota Camry - A001AA",
		ScheduledAt:  time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		Location:     "Downtown Center",
	}
}

func TestBuildMessage_SMSConfirmed(t *testing.T) {
	msg, err := BuildMessage(testEvent(domain.EventConfirmed, domain.ChannelSMS))
	require.NoError(t, err)

	assert.Empty(t, msg.Subject)
	assert.Equal(t,
		"Hi Ivan! Your Premium Wash booking is confirmed for Sep 15, 2026 at 10:00. We'll send you updates as we prepare for your service. - CarWash Pro",
		msg.Body)
}

func TestBuildMessage_EmailConfirmed(t *testing.T) {
	msg, err := BuildMessage(testEvent(domain.EventConfirmed, domain.ChannelEmail))
	require.NoError(t, err)

	assert.Equal(t, "Booking Confirmed - Premium Wash | CarWash Pro", msg.Subject)
	assert.Contains(t, msg.Body, "Hi Ivan,")
	assert.Contains(t, msg.Body, "Service: Premium Wash")
	assert.Contains(t, msg.Body, "Vehicle: Toyota Camry - A001AA")
	assert.Contains(t, msg.Body, "Date & Time: Sep 15, 2026 at 10:00")
	assert.Contains(t, msg.Body, "Location: Downtown Center")
}

func TestBuildMessage_AllKindsHaveText(t *testing.T) {
	kinds := []domain.EventKind{
		domain.EventCreated,
		domain.EventConfirmed,
		domain.EventStarted,
		domain.EventCompleted,
		domain.EventCanceled,
	}

	for _, kind := range kinds {
		for _, channel := range []domain.Channel{domain.ChannelEmail, domain.ChannelSMS} {
			msg, err := BuildMessage(testEvent(kind, channel))
			require.NoError(t, err, "kind=%s channel=%s", kind, channel)
			assert.NotEmpty(t, msg.Body, "kind=%s channel=%s", kind, channel)
			assert.True(t, strings.HasPrefix(msg.Body, "Hi Ivan"), "kind=%s channel=%s", kind, channel)
			if channel == domain.ChannelEmail {
				assert.NotEmpty(t, msg.Subject, "kind=%s", kind)
			}
		}
	}
}

func TestBuildMessage_UnknownChannel(t *testing.T) {
	_, err := BuildMessage(testEvent(domain.EventConfirmed, "pigeon"))
	require.ErrorIs(t, err, ErrUnknownChannel)
}

func TestDispatch_RoutesByChannel(t *testing.T) {
	email := &fakeEmailClient{}
	sms := &fakeSMSClient{}
	d := NewGatewayDispatcher(email, sms, noopLogger{})
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, testEvent(domain.EventConfirmed, domain.ChannelEmail)))
	require.NoError(t, d.Dispatch(ctx, testEvent(domain.EventConfirmed, domain.ChannelSMS)))

	require.Len(t, email.sent, 1)
	assert.Equal(t, "ivan@example.com", email.sent[0].to)
	assert.NotEmpty(t, email.sent[0].subject)

	require.Len(t, sms.sent, 1)
	assert.Empty(t, sms.sent[0].subject)
}

func TestDispatch_GatewayFailure(t *testing.T) {
	email := &fakeEmailClient{err: errors.New("gateway down")}
	d := NewGatewayDispatcher(email, &fakeSMSClient{}, noopLogger{})

	err := d.Dispatch(context.Background(), testEvent(domain.EventConfirmed, domain.ChannelEmail))
	require.ErrorIs(t, err, ErrDispatch)
}

// Фейки для воркера

type fakeOutbox struct {
	pending []*domain.NotificationEvent
	sent    []string
	failed  []string
}

func (o *fakeOutbox) ListPending(_ context.Context, limit int) ([]*domain.NotificationEvent, error) {
	if len(o.pending) > limit {
		return o.pending[:limit], nil
	}
	return o.pending, nil
}

func (o *fakeOutbox) MarkSent(_ context.Context, id string) error {
	o.sent = append(o.sent, id)
	return nil
}

func (o *fakeOutbox) MarkFailed(_ context.Context, id string, attempts, maxAttempts int, lastErr string) error {
	o.failed = append(o.failed, id)
	return nil
}

type fakeDispatcher struct {
	failIDs map[string]bool
	calls   []string
}

func (d *fakeDispatcher) Dispatch(_ context.Context, event *domain.NotificationEvent) error {
	d.calls = append(d.calls, event.ID)
	if d.failIDs[event.ID] {
		return ErrDispatch
	}
	return nil
}

type countingMetrics struct{ outcomes map[string]int }

func (m *countingMetrics) ObserveDispatch(channel, outcome string) {
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[channel+"/"+outcome]++
}

func eventWithID(id string) *domain.NotificationEvent {
	e := testEvent(domain.EventConfirmed, domain.ChannelEmail)
	e.ID = id
	return e
}

func TestDrainOnce_MarksSentAndFailed(t *testing.T) {
	outbox := &fakeOutbox{pending: []*domain.NotificationEvent{
		eventWithID("e-1"),
		eventWithID("e-2"),
		eventWithID("e-3"),
	}}
	dispatcher := &fakeDispatcher{failIDs: map[string]bool{"e-2": true}}
	metrics := &countingMetrics{}
	w := NewWorker(outbox, dispatcher, metrics, noopLogger{}, 0, 0, 0)

	sent := w.DrainOnce(context.Background())

	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"e-1", "e-3"}, outbox.sent)
	assert.Equal(t, []string{"e-2"}, outbox.failed)
	assert.Equal(t, 2, metrics.outcomes["email/sent"])
	assert.Equal(t, 1, metrics.outcomes["email/failed"])
}

func TestDrainOnce_RespectsBatchSize(t *testing.T) {
	outbox := &fakeOutbox{pending: []*domain.NotificationEvent{
		eventWithID("e-1"),
		eventWithID("e-2"),
		eventWithID("e-3"),
	}}
	dispatcher := &fakeDispatcher{}
	w := NewWorker(outbox, dispatcher, nil, noopLogger{}, 0, 2, 0)

	sent := w.DrainOnce(context.Background())

	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"e-1", "e-2"}, dispatcher.calls)
}

func TestDrainOnce_EmptyOutbox(t *testing.T) {
	w := NewWorker(&fakeOutbox{}, &fakeDispatcher{}, nil, noopLogger{}, 0, 0, 0)
	assert.Equal(t, 0, w.DrainOnce(context.Background()))
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(&fakeOutbox{}, &fakeDispatcher{}, nil, noopLogger{}, 0, 0, 0)

	assert.Equal(t, DefaultDrainInterval, w.interval)
	assert.Equal(t, DefaultBatchSize, w.batchSize)
	assert.Equal(t, DefaultMaxAttempts, w.maxAttempts)
}
