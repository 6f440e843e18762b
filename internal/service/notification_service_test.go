package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-client/internal/models"
)

type recordingSink struct {
	mu   sync.Mutex
	got  []models.Notification
	fail error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(ctx context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.fail
}

func (s *recordingSink) all() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.got...)
}

type fakePublisher struct {
	subject string
	data    []byte
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.subject = subject
	p.data = data
	return nil
}

type countingPublisher struct {
	mu sync.Mutex
	n  int
}

func (p *countingPublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	return nil
}

func (p *countingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

// gatedSink holds delivery until open is closed.
type gatedSink struct {
	open chan struct{}
}

func (s *gatedSink) Name() string { return "gate" }

func (s *gatedSink) Deliver(ctx context.Context, n models.Notification) error {
	<-s.open
	return nil
}

func TestNotificationsDeliverInlineWhenQueueStopped(t *testing.T) {
	sink := &recordingSink{}
	svc := NewNotificationService(NotificationConfig{Enabled: true}, nil, nil, sink)

	require.NoError(t, svc.JoinedClassroom(context.Background(), models.Classroom{ID: "B", Name: "Bio", Lecturer: "Dr. K", Code: "XYZ999"}))

	got := sink.all()
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationJoinClassroom, got[0].Type)
	assert.Equal(t, "Joined Classroom", got[0].Title)
	assert.Equal(t, "You've successfully joined Bio with Dr. K", got[0].Body)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, "B", got[0].Data["classroomId"])
}

func TestNotificationsQueuedAndDrainedOnClose(t *testing.T) {
	sink := &recordingSink{}
	svc := NewNotificationService(NotificationConfig{Enabled: true, QueueSize: 8}, nil, nil, sink)
	svc.Start(context.Background())

	ctx := context.Background()
	require.NoError(t, svc.LoggedIn(ctx, "a@b.co"))
	require.NoError(t, svc.LeftClassroom(ctx, models.Classroom{Name: "Art"}))
	require.NoError(t, svc.LoggedOut(ctx))
	svc.Close()

	got := sink.all()
	require.Len(t, got, 3)
	assert.Equal(t, "Welcome back! You're now logged in as a@b.co", got[0].Body)
	assert.Equal(t, "You have left Art", got[1].Body)
	assert.Equal(t, "You have been logged out successfully", got[2].Body)
}

func TestNotificationsDrainedAfterShutdownSignal(t *testing.T) {
	pub := &countingPublisher{}
	gate := &gatedSink{open: make(chan struct{})}
	svc := NewNotificationService(NotificationConfig{Enabled: true, QueueSize: 8}, nil, nil, gate, NewNATSSink(pub, "classroom"))

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.LoggedOut(ctx))
	}

	cancel()
	close(gate.open)
	svc.Close()

	assert.Equal(t, 5, pub.count())
}

func TestNotificationsDisabled(t *testing.T) {
	sink := &recordingSink{}
	svc := NewNotificationService(NotificationConfig{Enabled: false}, nil, nil, sink)
	require.NoError(t, svc.LoggedOut(context.Background()))
	assert.Empty(t, sink.all())
}

func TestNotificationSinkFailureIsReportedNotRetried(t *testing.T) {
	sink := &recordingSink{fail: errors.New("denied")}
	other := &recordingSink{}
	svc := NewNotificationService(NotificationConfig{Enabled: true}, nil, NewMetricsService(), sink, other)

	err := svc.LoggedOut(context.Background())
	require.Error(t, err)
	assert.Len(t, sink.all(), 1)
	assert.Len(t, other.all(), 1)
}

func TestNATSSinkPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewNATSSink(pub, "classroom.notifications.")
	svc := NewNotificationService(NotificationConfig{Enabled: true}, nil, nil, sink, NewLogSink(nil))

	require.NoError(t, svc.LoggedIn(context.Background(), "a@b.co"))
	assert.Equal(t, "classroom.notifications.login", pub.subject)

	var decoded models.Notification
	require.NoError(t, json.Unmarshal(pub.data, &decoded))
	assert.Equal(t, models.NotificationLogin, decoded.Type)
	assert.Equal(t, "Login Successful", decoded.Title)
}

func TestNATSSinkHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewNATSSink(&fakePublisher{}, "x").Deliver(ctx, models.Notification{Type: models.NotificationLogout})
	assert.ErrorIs(t, err, context.Canceled)
}
