package offline

import "errors"

// Причины, по которым проход по очереди не выполняется
var (
	ErrOffline           = errors.New("device is offline, queue processing skipped")
	ErrPaused            = errors.New("queue is paused")
	ErrAlreadyProcessing = errors.New("queue is already being processed")
	ErrNoApplyFunc       = errors.New("apply function is not set")
	ErrClosed            = errors.New("engine is closed")
	ErrCanceled          = errors.New("queue processing canceled")
)

// PermanentError помечает ошибку доставки как окончательную:
// операция удаляется из очереди без повторных попыток.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent оборачивает ошибку в PermanentError. nil остается nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent сообщает, помечена ли ошибка как окончательная
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}
