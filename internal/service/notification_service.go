package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/internal/models"
	"github.com/noah-isme/classroom-client/pkg/jobs"
)

// NotificationSink delivers one notification somewhere the user can see it.
type NotificationSink interface {
	Name() string
	Deliver(ctx context.Context, n models.Notification) error
}

// LogSink writes notifications to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink constructs a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Name implements NotificationSink.
func (s *LogSink) Name() string { return "log" }

// Deliver implements NotificationSink.
func (s *LogSink) Deliver(_ context.Context, n models.Notification) error {
	s.logger.Info(n.Title,
		zap.String("notification_id", n.ID),
		zap.String("type", string(n.Type)),
		zap.String("body", n.Body),
	)
	return nil
}

// publisher is satisfied by *nats.Conn.
type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes notifications as JSON on <prefix>.<type>.
type NATSSink struct {
	conn   publisher
	prefix string
}

// NewNATSSink constructs a NATSSink.
func NewNATSSink(conn publisher, prefix string) *NATSSink {
	return &NATSSink{conn: conn, prefix: strings.TrimSuffix(prefix, ".")}
}

// Name implements NotificationSink.
func (s *NATSSink) Name() string { return "nats" }

// Subject returns the subject a notification type is published on.
func (s *NATSSink) Subject(kind models.NotificationType) string {
	if s.prefix == "" {
		return string(kind)
	}
	return s.prefix + "." + string(kind)
}

// Deliver implements NotificationSink.
func (s *NATSSink) Deliver(ctx context.Context, n models.Notification) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return s.conn.Publish(s.Subject(n.Type), data)
}

// NotificationConfig tunes the emitter.
type NotificationConfig struct {
	Enabled   bool
	QueueSize int
}

// NotificationService emits fire-and-forget user feedback. Delivery runs on a
// single-worker queue while it is started; otherwise it happens inline.
// Failures are logged and counted, never retried.
type NotificationService struct {
	enabled bool
	sinks   []NotificationSink
	queue   *jobs.Queue
	logger  *zap.Logger
	metrics *MetricsService
	now     func() time.Time
}

// NewNotificationService constructs the emitter with the given sinks.
func NewNotificationService(cfg NotificationConfig, logger *zap.Logger, metrics *MetricsService, sinks ...NotificationSink) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{
		enabled: cfg.Enabled,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
	svc.queue = jobs.NewQueue("notifications", svc.handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.QueueSize,
		Logger:     logger,
	})
	return svc
}

// Start launches the delivery worker.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Close drains pending notifications and stops the worker.
func (s *NotificationService) Close() {
	s.queue.Stop()
}

// Emit stamps and dispatches n. The returned error only reports that the
// notification could not be queued.
func (s *NotificationService) Emit(ctx context.Context, n models.Notification) error {
	if s == nil || !s.enabled {
		return nil
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	job := jobs.Job{ID: n.ID, Type: string(n.Type), Payload: n}
	if !s.queue.Running() {
		return s.handle(ctx, job)
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.metrics.RecordNotification(string(n.Type), "dropped")
		return err
	}
	return nil
}

// LoggedIn announces a successful login.
func (s *NotificationService) LoggedIn(ctx context.Context, email string) error {
	return s.Emit(ctx, models.Notification{
		Type:  models.NotificationLogin,
		Title: "Login Successful",
		Body:  fmt.Sprintf("Welcome back! You're now logged in as %s", email),
		Data:  map[string]interface{}{"email": email},
	})
}

// JoinedClassroom announces a join.
func (s *NotificationService) JoinedClassroom(ctx context.Context, c models.Classroom) error {
	return s.Emit(ctx, models.Notification{
		Type:  models.NotificationJoinClassroom,
		Title: "Joined Classroom",
		Body:  fmt.Sprintf("You've successfully joined %s with %s", c.Name, c.Lecturer),
		Data:  classroomData(c),
	})
}

// LeftClassroom announces a removal.
func (s *NotificationService) LeftClassroom(ctx context.Context, c models.Classroom) error {
	return s.Emit(ctx, models.Notification{
		Type:  models.NotificationLeaveClassroom,
		Title: "Left Classroom",
		Body:  fmt.Sprintf("You have left %s", c.Name),
		Data:  classroomData(c),
	})
}

// LoggedOut announces the end of a session.
func (s *NotificationService) LoggedOut(ctx context.Context) error {
	return s.Emit(ctx, models.Notification{
		Type:  models.NotificationLogout,
		Title: "Logged Out",
		Body:  "You have been logged out successfully",
	})
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected notification payload %T", job.Payload)
	}
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			s.logger.Warn("notification delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("notification_id", n.ID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	result := "delivered"
	if len(errs) > 0 {
		result = "failed"
	}
	s.metrics.RecordNotification(string(n.Type), result)
	return errors.Join(errs...)
}

func classroomData(c models.Classroom) map[string]interface{} {
	data := map[string]interface{}{"code": c.Code, "name": c.Name}
	if c.HasID() {
		data["classroomId"] = c.ID
	}
	return data
}
