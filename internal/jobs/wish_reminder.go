// File: internal/jobs/wish_reminder.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/RulerDevansh/SecretSanta/internal/config"
	"github.com/RulerDevansh/SecretSanta/internal/group"
	"github.com/RulerDevansh/SecretSanta/internal/mailer"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// WishReminderJob periodically nudges members of started groups who have not
// submitted a wishlist yet.
type WishReminderJob struct {
	groups        group.Repository
	wishes        group.WishStore
	mail          mailer.Mailer
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewWishReminderJob creates a new WishReminderJob.
func NewWishReminderJob(
	groups group.Repository,
	wishes group.WishStore,
	mail mailer.Mailer,
	logger *zap.Logger,
	cfg *config.Config,
) *WishReminderJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &WishReminderJob{
		groups:        groups,
		wishes:        wishes,
		mail:          mail,
		logger:        logger.Named("WishReminderJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *WishReminderJob) SetupAndStart() error {
	jobSpec := j.cfg.WishReminderJobSchedule // e.g., "@daily", "0 9 * * *" (9 AM daily)
	if jobSpec == "" {
		j.logger.Warn("Wish reminder job schedule not defined (WISH_REMINDER_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule wish reminder job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Wish reminder job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob walks every started group and emails members without a wish.
// Delivery failures are logged and skipped; the next run retries them.
func (j *WishReminderJob) runJob() {
	j.logger.Info("Starting wish reminder job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	groups, err := j.groups.ListStarted(ctx)
	if err != nil {
		j.logger.Error("Wish reminder job failed to list started groups", zap.Error(err))
		return
	}

	var sent, failed int
	for i := range groups {
		g := &groups[i]
		statuses, err := j.wishes.StatusesByGroup(ctx, g.ID)
		if err != nil {
			j.logger.Error("Failed to load wish statuses", zap.String("groupCode", g.Code), zap.Error(err))
			continue
		}

		for _, member := range g.Members {
			if _, ok := statuses[member.ID]; ok {
				continue
			}
			subject, htmlBody, textBody, err := mailer.RenderReminderEmail(mailer.ReminderEmailData{
				MemberName: member.Name,
				GroupTitle: g.Title,
				GroupCode:  g.Code,
			})
			if err != nil {
				j.logger.Error("Failed to render reminder email", zap.Error(err))
				failed++
				continue
			}
			msg := mailer.Message{To: member.Email, Subject: subject, HTML: htmlBody, Text: textBody}
			if err := j.mail.Deliver(ctx, msg); err != nil {
				j.logger.Warn("Reminder email delivery failed",
					zap.String("groupCode", g.Code),
					zap.String("to", member.Email),
					zap.Error(err),
				)
				failed++
				continue
			}
			sent++
		}
	}

	j.logger.Info("Wish reminder job run completed", zap.Int("reminders_sent", sent), zap.Int("reminders_failed", failed))
}

// Stop gracefully stops the cron scheduler.
func (j *WishReminderJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping wish reminder job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Wish reminder job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Wish reminder job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
