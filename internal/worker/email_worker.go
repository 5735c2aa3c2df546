package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/email"
	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// EmailPollTimeout bounds one BLPop on the email queue.
const EmailPollTimeout = 1 * time.Second

// EmailWorker consumes queued e-mail tasks and sends them through the
// transactional mail provider.
type EmailWorker struct {
	rdb    *redis.Client
	sender *email.Sender
	log    zerolog.Logger
}

// NewEmailWorker creates a new EmailWorker.
func NewEmailWorker(rdb *redis.Client, sender *email.Sender, log zerolog.Logger) *EmailWorker {
	return &EmailWorker{
		rdb:    rdb,
		sender: sender,
		log:    log.With().Str("component", "email_worker").Logger(),
	}
}

// Start runs the consume loop until ctx is cancelled.
func (w *EmailWorker) Start(ctx context.Context) {
	w.log.Info().Msg("EmailWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("EmailWorker shutting down")
			return
		default:
			item, err := w.rdb.BLPop(ctx, EmailPollTimeout, config.WorkerKey.EmailQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var task model.EmailTask
			if err := json.Unmarshal([]byte(item[1]), &task); err != nil {
				w.log.Error().Err(err).Msg("Invalid email task")
				continue
			}

			w.send(task)
		}
	}
}

func (w *EmailWorker) send(task model.EmailTask) {
	var err error
	switch task.Kind {
	case "verification":
		err = w.sender.SendVerification(task.To, task.Name, task.Token)
	case "password_reset":
		err = w.sender.SendPasswordReset(task.To, task.Name, task.Token)
	default:
		w.log.Error().Str("kind", task.Kind).Msg("Unknown email task kind")
		return
	}

	if err != nil {
		// Token links stay valid, the user can request a re-send.
		w.log.Error().Err(err).Str("kind", task.Kind).Msg("Email send failed")
		return
	}
	w.log.Info().Str("kind", task.Kind).Msg("Email sent")
}
