package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 数据集错误：INVALID_SHAPE, NOT_FOUND
//   - 负采样错误：SAMPLING_EXHAUSTED
//   - 模型错误：INVALID_INPUT, INTERNAL_ERROR
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_SHAPE", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "dataset", "model", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError（支持 %w 包装链），如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeInvalidShape      = "INVALID_SHAPE"      // 交互表形状不合法（列数不足或不规整）
	ErrorCodeNotFound          = "NOT_FOUND"          // 资源不存在（如未注册的原始 ID）
	ErrorCodeSamplingExhausted = "SAMPLING_EXHAUSTED" // 负采样在重试预算内找不到合法样本
	ErrorCodeInvalidInput      = "INVALID_INPUT"      // 输入无效（如未知的模型类型）
	ErrorCodeInternalError     = "INTERNAL_ERROR"     // 内部错误
)

// 模块名称常量
const (
	ModuleDataset = "dataset" // 数据集模块
	ModuleModel   = "model"   // 模型模块
	ModuleStore   = "store"   // 存储模块
)

// IsInvalidShape 检查错误是否为 INVALID_SHAPE
func IsInvalidShape(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidShape
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsSamplingExhausted 检查错误是否为 SAMPLING_EXHAUSTED
func IsSamplingExhausted(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeSamplingExhausted
	}
	return false
}
