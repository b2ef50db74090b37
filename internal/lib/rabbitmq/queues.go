package rabbitmq

const (
	// NotificationsExchange exchange для уведомлений участникам клуба.
	NotificationsExchange = "notifications"
	// ExpiringRoutingKey ключ маршрутизации для напоминаний об окончании абонемента.
	ExpiringRoutingKey = "membership.expiring"
	// ExpiringQueue очередь, из которой читает отправитель писем.
	ExpiringQueue = "notifications.membership.expiring"
)

// QueueConfig описывает очередь и ключ, по которому она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues возвращает очереди, которые объявляются при запуске.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ExpiringQueue, RoutingKey: ExpiringRoutingKey},
	}
}
