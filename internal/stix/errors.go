package stix

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport 表示数据源不可达或返回了非 200 状态码。
	ErrTransport = errors.New("请求 STIX 数据源失败")
	// ErrParse 表示响应体不是合法 JSON 或缺少 objects。
	ErrParse = errors.New("解析 STIX 数据失败")
	// ErrTransform 表示被选中的对象结构不符合预期。
	ErrTransform = errors.New("转换 STIX 对象失败")
)

// StatusError 记录数据源返回的非 200 状态码。
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("STIX 数据源返回状态码 %d (%s)", e.Code, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrTransport
}
