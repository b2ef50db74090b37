// Package notifier собирает приложение, отправляющее письма об окончании абонемента.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-tracker/internal/config"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/smtp"
	notifierservice "github.com/magabrotheeeer/gym-tracker/internal/services/notifier"
)

// App представляет приложение отправки уведомлений.
type App struct {
	notifierService *notifierservice.NotifierService
	conn            *amqp.Connection
	ch              *amqp.Channel
	workers         int
	logger          *slog.Logger
}

// New создает новый экземпляр приложения уведомлений.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	logger.Info("connected to RabbitMQ")

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationsExchange, rabbitmq.NotificationQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	transport := smtp.NewTransport(cfg.SMTP)

	return &App{
		notifierService: notifierservice.NewNotifierService(transport, logger),
		conn:            conn,
		ch:              ch,
		workers:         cfg.SMTP.Workers,
		logger:          logger,
	}, nil
}

// Run читает очередь истекающих абонементов до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	a.logger.Info("consuming queue", slog.String("queue", rabbitmq.ExpiringQueue))
	if err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.ExpiringQueue, a.workers, a.logger, a.notifierService.HandleExpiring); err != nil {
		return fmt.Errorf("failed to consume %s: %w", rabbitmq.ExpiringQueue, err)
	}

	a.logger.Info("shutting down expiry notifier")
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
