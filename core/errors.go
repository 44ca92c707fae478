package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 错误分类：
//   - INVALID_INPUT：未知的交互类型/类目/性别，在任何状态变更之前拒绝
//   - NOT_FOUND：用户、商品、交互记录不存在
//   - CONFLICT：存储层唯一性冲突（同一 user/product 重复创建交互）
//   - UNAVAILABLE：依赖（存储、特征服务）读写失败
//
// 重复记录同一类型的交互不是错误，而是显式的 no-op（见 interaction.Outcome）。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "interaction", "recommend"）
	Err     error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is 按 Module + Code + Message 判等，便于 errors.Is(err, ErrUserNotFound) 之类的判断。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Module == t.Module && e.Message == t.Message
}

// GetDomainError 沿错误链获取 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsDomainError 检查错误链中是否包含 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 用领域错误包装底层错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeConflict      = "CONFLICT"       // 唯一性冲突
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 依赖不可用
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore       = "store"       // 存储模块
	ModuleInteraction = "interaction" // 交互台账
	ModulePreference  = "preference"  // 偏好向量
	ModuleRecommend   = "recommend"   // 推荐流水线
	ModuleFeature     = "feature"     // 特征/Embedding 来源
)

// 常用错误
var (
	ErrUserNotFound        = NewDomainError(ModuleStore, ErrorCodeNotFound, "user not found")
	ErrProductNotFound     = NewDomainError(ModuleStore, ErrorCodeNotFound, "product not found")
	ErrInteractionNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "interaction not found")
	ErrInteractionExists   = NewDomainError(ModuleStore, ErrorCodeConflict, "interaction already exists")
)

// InvalidInputf 构造 INVALID_INPUT 错误
func InvalidInputf(module, format string, args ...any) *DomainError {
	return NewDomainError(module, ErrorCodeInvalidInput, fmt.Sprintf(format, args...))
}

// Unavailable 将依赖错误包装为 UNAVAILABLE；已经是 DomainError 的错误原样返回。
func Unavailable(module, op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return WrapDomainError(module, ErrorCodeUnavailable, op, err)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsConflict 检查错误是否为 CONFLICT
func IsConflict(err error) bool { return hasCode(err, ErrorCodeConflict) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }
