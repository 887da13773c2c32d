// Package apperr закрытая таксономия бизнес-ошибок движка бронирования.
// Каждая операция движка при неудаче возвращает ровно один вид ошибки;
// непредвиденные сбои хранилища заворачиваются в KindInternal, и вызывающий
// не должен выводить из них бизнес-семантику.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal      Kind = iota // Непредвиденный сбой хранилища или инфраструктуры
	KindValidation                // Некорректный или выходящий за диапазон ввод
	KindAuthorization             // Несовпадение роли или владельца
	KindNotFound                  // Отсутствует связанная сущность
	KindConflict                  // Гонка за слот, пересечение, дубликат отзыва
	KindState                     // Недопустимый переход жизненного цикла
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func Authorization(msg string) error {
	return &Error{Kind: KindAuthorization, Msg: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func State(msg string) error {
	return &Error{Kind: KindState, Msg: msg}
}

// Internal оборачивает непредвиденную ошибку нижнего уровня
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf возвращает вид ошибки; для посторонних ошибок всегда KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind проверяет, что ошибка принадлежит указанному виду таксономии
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Message возвращает сообщение для вызывающего без внутренних деталей
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "internal server error"
}
