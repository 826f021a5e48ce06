package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 业务错误分类。API 层通过 errors.Is 把它们映射为 HTTP 状态码。
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnavailable      = errors.New("unavailable")

	// ErrReferenceNotFound 与重复键冲突共享同一个状态码，但消息不同。
	ErrReferenceNotFound = fmt.Errorf("reference not found: %w", ErrConflict)
)

// Error 是带有对外可见消息的业务错误。
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, detail string) error {
	return &Error{Kind: kind, Detail: detail}
}

// Reference 标识 UE 引用的实体类型。
type Reference string

const (
	RefGNB  Reference = "gNB"
	RefCell Reference = "Cell"
	RefPath Reference = "path"
)

// ReferenceNotFoundError 指出 UE 引用的哪个实体不存在。
type ReferenceNotFoundError struct {
	Ref Reference
	ID  uint
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("ERROR: This %[1]s_id you specified doesn't exist. Please create a new %[1]s with this %[1]s_id or use an existing %[1]s", e.Ref)
}

func (e *ReferenceNotFoundError) Unwrap() error {
	return ErrReferenceNotFound
}

var (
	errNotEnoughPermissions = newError(ErrPermissionDenied, "Not enough permissions")
	errUENotFound           = newError(ErrNotFound, "UE not found")
	errPathNotFound         = newError(ErrNotFound, "Path not found")
	errGNBNotFound          = newError(ErrNotFound, "gNB not found")
	errCellNotFound         = newError(ErrNotFound, "Cell not found")
	errUserNotFound         = newError(ErrNotFound, "User not found")
	errDuplicateSUPI        = newError(ErrConflict, "ERROR: UE with this id already exists")
)

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// translate 把存储层的错误转换为业务错误；notFound 为 nil 时原样包装。
func translate(err error, notFound error, op string) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	var refErr *ReferenceNotFoundError
	if errors.As(err, &svcErr) || errors.As(err, &refErr) {
		return err
	}
	if notFound != nil && isRecordNotFound(err) {
		return notFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return newError(ErrConflict, fmt.Sprintf("%s: duplicate key", op))
	}
	return fmt.Errorf("%s: %w", op, err)
}
