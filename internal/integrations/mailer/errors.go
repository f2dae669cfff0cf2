package mailer

import "errors"

var (
	// ErrUnknownKind возвращается для неизвестного вида письма
	ErrUnknownKind = errors.New("mailer: unknown email kind")

	// ErrRender возвращается при ошибке подстановки данных в шаблон
	ErrRender = errors.New("mailer: failed to render template")

	// ErrInvalidRecord возвращается для пустой записи бронирования
	ErrInvalidRecord = errors.New("mailer: invalid booking record")
)
