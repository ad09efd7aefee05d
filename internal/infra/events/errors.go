package events

import "errors"

var (
	// ErrPublish возвращается при ошибке публикации события в канал
	ErrPublish = errors.New("events: failed to publish event")

	// ErrSubscribe возвращается при ошибке подписки на канал
	ErrSubscribe = errors.New("events: failed to subscribe to channel")

	// ErrMarshal возвращается при ошибке сериализации события
	ErrMarshal = errors.New("events: failed to marshal event")
)
