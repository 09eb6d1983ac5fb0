package ports

import "context"

// MessageConsumer — фоновый потребитель сообщений (фид каталога).
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
