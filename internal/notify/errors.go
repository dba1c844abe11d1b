package notify

import "errors"

var (
	// ErrDispatch возвращается, когда шлюз не смог доставить уведомление
	ErrDispatch = errors.New("notify: dispatch failed")

	// ErrUnknownChannel возвращается для события с неизвестным каналом доставки
	ErrUnknownChannel = errors.New("notify: unknown channel")
)
