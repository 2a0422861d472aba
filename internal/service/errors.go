package service

import (
	"errors"
	"fmt"
)

// 服务层错误的类别，使用 errors.Is 判断
var (
	ErrNotFound   = errors.New("not found")
	ErrEmailInUse = errors.New("email address is already in use")
	ErrStorage    = errors.New("storage failure")
)

// Error 是服务层返回的失败结果：类别 + 面向用户的消息 + (可选) 底层原因。
// 服务方法从不 panic，所有存储错误都会被包装成 Error 返回。
type Error struct {
	Kind    error  // ErrNotFound / ErrEmailInUse / ErrStorage
	Message string // 人类可读的消息
	Err     error  // 底层错误，可能为 nil
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap 让 errors.Is 同时匹配类别和底层原因
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func userNotFound(id uint) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("User with ID %d not found", id)}
}

func logNotFound(id uint) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("Log with Id %d not found", id)}
}

func emailInUse() error {
	return &Error{Kind: ErrEmailInUse, Message: "Email address is already in use"}
}

// storageError 把仓库层错误包装为存储失败，prefix 描述失败的操作
func storageError(prefix string, err error) error {
	return &Error{Kind: ErrStorage, Message: fmt.Sprintf("%s: %v", prefix, err), Err: err}
}

// Message 返回错误中面向用户的消息；非服务层错误返回 fallback
func Message(err error, fallback string) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return fallback
}
