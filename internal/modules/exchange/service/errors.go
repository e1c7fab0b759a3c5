package service

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrKind — классификация ошибок биржи. Исполнитель решает по ней,
// ретраить попытку или сдаваться сразу.
type ErrKind int

const (
	// ErrKindExchange — общая бизнес-ошибка биржи, не ретраится.
	ErrKindExchange ErrKind = iota
	// ErrKindFunds — не хватает средств, не ретраится.
	ErrKindFunds
	// ErrKindInvalidOrder — кривые параметры ордера, не ретраится.
	ErrKindInvalidOrder
	// ErrKindNetwork — транспортная/временная, ретраится.
	ErrKindNetwork
)

type Error struct {
	Kind ErrKind
	Code int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("exchange error (code=%d): %s", e.Code, e.Msg)
}

// KindOf достаёт класс из цепочки ошибок. Всё, что не *Error
// (таймауты транспорта, обрывы соединения), считаем сетевой.
func KindOf(err error) ErrKind {
	var ex *Error
	if errors.As(err, &ex) {
		return ex.Kind
	}
	return ErrKindNetwork
}

// apiError разбирает тело ошибки биржи ({"code":...,"msg":...}).
// 5xx и нечитаемые тела считаем сетевыми.
func apiError(op string, status int, body []byte) error {
	if status/100 == 5 {
		return fmt.Errorf("%s: %w", op, &Error{
			Kind: ErrKindNetwork,
			Code: status,
			Msg:  string(body),
		})
	}

	var r struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := sonic.Unmarshal(body, &r); err != nil || r.Code == 0 {
		return fmt.Errorf("%s http %d: %w", op, status, &Error{
			Kind: ErrKindExchange,
			Code: status,
			Msg:  string(body),
		})
	}
	return fmt.Errorf("%s: %w", op, classifyCode(r.Code, r.Msg))
}

// classifyCode переводит коды Binance в наш класс.
func classifyCode(code int, msg string) *Error {
	kind := ErrKindExchange
	switch code {
	case -2010, -2019: // insufficient balance / margin
		kind = ErrKindFunds
	case -1013, -1100, -1102, -1106, -1111, -1121: // filters, params, bad symbol
		kind = ErrKindInvalidOrder
	case -1001, -1003, -1007: // internal error, rate limit, timeout
		kind = ErrKindNetwork
	}
	return &Error{Kind: kind, Code: code, Msg: msg}
}
