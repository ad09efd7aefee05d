package domain

import "errors"

var (
	// ErrUnknownStatus возвращается при конвертации строки в неизвестный статус
	ErrUnknownStatus = errors.New("domain: unknown appointment status")
)
