package errors

import (
	"errors"
	"fmt"

	"tonvault/pkg/errors/ecode"
)

// 带业务错误码的error，handler层统一通过DecodeErr还原code和提示信息

type codedError struct {
	code    int
	message string
	cause   error
}

func (e *codedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("code=%d message=%s cause=%v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("code=%d message=%s", e.code, e.message)
}

func (e *codedError) Unwrap() error { return e.cause }

// WithCode 创建一个带错误码的error
func WithCode(code int, message string) error {
	return &codedError{code: code, message: message}
}

// Wrap 包装err并附加错误码和提示信息
func Wrap(err error, code int, message string) error {
	return &codedError{code: code, message: message, cause: err}
}

// Wrapf 同Wrap，带格式化
func Wrapf(err error, code int, format string, args ...interface{}) error {
	return &codedError{code: code, message: fmt.Sprintf(format, args...), cause: err}
}

// DecodeErr 解出错误码和提示信息。nil表示成功。
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, "OK"
	}
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code, ce.message
	}
	return ecode.Unknown, err.Error()
}

// Is/As 透传标准库实现，调用方不需要同时import两个errors包
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }
