package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/notify"
)

// Deps are the collaborators the task handlers need.
type Deps struct {
	DB     *gorm.DB
	Push   *notify.PushSender
	Mailer *notify.Mailer
	Logger *slog.Logger
}

// Worker wraps the asynq server plus the cron scheduler that feeds it the
// daily reminder scans.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

func NewWorker(redisOpts asynq.RedisClientOpt, deps Deps) (*Worker, error) {
	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})

	h := &handlers{deps: deps}
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendMail, h.sendMail)
	mux.HandleFunc(TaskSendPush, h.sendPush)
	mux.HandleFunc(TaskFunctionReminder, h.functionReminder)
	mux.HandleFunc(TaskPasswordExpiry, h.passwordExpiry)
	mux.HandleFunc(TaskUpcomingSweep, h.upcomingSweep)

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	for _, entry := range []struct {
		spec string
		typ  string
	}{
		{CronFunctionReminder, TaskFunctionReminder},
		{CronPasswordExpiry, TaskPasswordExpiry},
		{CronUpcomingSweep, TaskUpcomingSweep},
	} {
		if _, err := scheduler.Register(entry.spec, asynq.NewTask(entry.typ, nil)); err != nil {
			return nil, err
		}
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, logger: deps.Logger}, nil
}

// Run processes jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.scheduler.Start(); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.scheduler.Shutdown()
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		w.scheduler.Shutdown()
		return err
	}
}

type handlers struct {
	deps Deps
}

func (h *handlers) sendMail(ctx context.Context, t *asynq.Task) error {
	var payload SendMailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	return h.deps.Mailer.Send(payload.To, payload.Subject, payload.Body)
}

// sendPush delivers the push and records it in the notification log.
func (h *handlers) sendPush(ctx context.Context, t *asynq.Task) error {
	var payload SendPushPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := h.deps.Push.Send(ctx, payload.Token, payload.Title, payload.Body); err != nil {
		return err
	}
	notifType := payload.Type
	if !models.IsValidNotificationType(notifType) {
		notifType = models.NotificationGeneral
	}
	return h.deps.DB.Create(&models.Notification{
		UserID: payload.UserID,
		Title:  payload.Title,
		Body:   payload.Body,
		Type:   notifType,
	}).Error
}

type reminderTarget struct {
	UserID            int64  `gorm:"column:user_id"`
	NotificationToken string `gorm:"column:notification_token"`
	Email             string `gorm:"column:email"`
	FunctionName      string `gorm:"column:function_name"`
}

// functionReminder notifies owners of functions dated tomorrow. One failed
// push must not stop the rest of the batch.
func (h *handlers) functionReminder(ctx context.Context, _ *asynq.Task) error {
	start := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	var targets []reminderTarget
	err := h.deps.DB.Table("gp_moi_functions").
		Select("gp_moi_functions.f_um_id AS user_id, gp_moi_user_master.um_notification_token AS notification_token, gp_moi_user_master.um_email AS email, gp_moi_functions.function_name AS function_name").
		Joins("INNER JOIN gp_moi_user_master ON gp_moi_functions.f_um_id = gp_moi_user_master.um_id").
		Where("gp_moi_functions.f_active = ? AND gp_moi_user_master.um_status = ? AND gp_moi_user_master.um_notification_token IS NOT NULL", models.StatusActive, models.StatusActive).
		Where("gp_moi_functions.function_date >= ? AND gp_moi_functions.function_date < ?", start, end).
		Scan(&targets).Error
	if err != nil {
		return err
	}

	for _, target := range targets {
		payload := SendPushPayload{
			UserID: target.UserID,
			Token:  target.NotificationToken,
			Title:  "விழா நினைவூட்டல்",
			Body:   "நாளை உங்களுக்கு ஒரு முக்கிய விழா உள்ளது. தயவுசெய்து தயாராக இருங்கள்.",
			Type:   models.NotificationFunction,
		}
		task, err := NewSendPushTask(payload)
		if err != nil {
			continue
		}
		if err := h.handleInline(ctx, task); err != nil {
			h.deps.Logger.Error("function reminder push failed",
				slog.Int64("user_id", target.UserID), slog.Any("error", err))
		}
	}
	h.deps.Logger.Info("function reminder check completed", slog.Int("targets", len(targets)))
	return nil
}

// passwordExpiry nudges users whose password is older than three months.
func (h *handlers) passwordExpiry(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().AddDate(0, -3, 0)

	var users []models.User
	err := h.deps.DB.
		Where("um_status = ? AND um_notification_token IS NOT NULL AND um_password_changed_at IS NOT NULL AND um_password_changed_at < ?",
			models.StatusActive, cutoff).
		Find(&users).Error
	if err != nil {
		return err
	}

	for _, user := range users {
		payload := SendPushPayload{
			UserID: user.ID,
			Token:  *user.NotificationToken,
			Title:  "கடவுச்சொல் புதுப்பிப்பு நினைவூட்டல்",
			Body:   "உங்கள் கடவுச்சொல் 3 மாதங்களுக்கு மேல் மாற்றப்படவில்லை. உங்கள் கணக்கின் பாதுகாப்பை உறுதிப்படுத்த, தயவுசெய்து உங்கள் கடவுச்சொல்லை மாற்றவும்.",
			Type:   models.NotificationAccount,
		}
		task, err := NewSendPushTask(payload)
		if err != nil {
			continue
		}
		if err := h.handleInline(ctx, task); err != nil {
			h.deps.Logger.Error("password expiry push failed",
				slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
	}
	h.deps.Logger.Info("password expiration check completed", slog.Int("targets", len(users)))
	return nil
}

// upcomingSweep flips past-dated upcoming functions to completed.
func (h *handlers) upcomingSweep(ctx context.Context, _ *asynq.Task) error {
	today := time.Now().Truncate(24 * time.Hour)
	res := h.deps.DB.Model(&models.UpcomingFunction{}).
		Where("uf_date < ? AND (status IS NULL OR status = '' OR status = ?)", today, "upcoming").
		Update("status", "completed")
	if res.Error != nil {
		return res.Error
	}
	h.deps.Logger.Info("upcoming function sweep completed", slog.Int64("updated", res.RowsAffected))
	return nil
}

// handleInline runs a push task within a scan instead of re-enqueueing it,
// so a scan is one queue hop, not N+1.
func (h *handlers) handleInline(ctx context.Context, t *asynq.Task) error {
	return h.sendPush(ctx, t)
}
