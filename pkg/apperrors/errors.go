// Package apperrors 定义业务错误分类，供各服务层与 HTTP 层统一使用
package apperrors

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation 输入格式或取值范围错误
	KindValidation
	// KindNotFound 引用的实体不存在
	KindNotFound
	// KindConflict 唯一性冲突
	KindConflict
	// KindInvalidTransition 状态机规则冲突
	KindInvalidTransition
	// KindPersistence 事务内非预期的持久化失败
	KindPersistence
	// KindUnauthorized 未认证
	KindUnauthorized
	// KindForbidden 已认证但无权限
	KindForbidden
)

// Error 携带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation 创建输入校验错误
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound 创建实体不存在错误，消息包含实体名与 ID
func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with ID %v not found", entity, id)}
}

// Conflict 创建唯一性冲突错误
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition 创建状态机转换错误
func InvalidTransition(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

// Persistence 包装事务内的非预期失败，对外只暴露概要信息
func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: fmt.Sprintf("failed to %s", op), Err: err}
}

// Unauthorized 创建未认证错误
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden 创建权限错误
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// KindOf 提取错误类别，非 *Error 返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf 提取对外可见的错误消息；KindPersistence 不泄漏内部细节
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
