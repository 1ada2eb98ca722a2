package errs

import (
	"errors"
	"strconv"
	"strings"

	pkgerr "github.com/pkg/errors"
)

// CodeError 业务错误：code + msg + 可叠加的 detail。
// 各模块通过 code 判定类别（errors.Is），detail 只用于日志排查。
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

func (e *CodeError) clone() *CodeError {
	return &CodeError{Code: e.Code, Msg: e.Msg, Detail: e.Detail}
}

// WithDetail 追加 detail，返回新实例（原值不可变，可做哨兵）。
func (e *CodeError) WithDetail(detail string) *CodeError {
	c := e.clone()
	if c.Detail == "" {
		c.Detail = detail
	} else {
		c.Detail += ", " + detail
	}
	return c
}

// Wrap 附带调用栈（%+v 可打印）。
func (e *CodeError) Wrap() error {
	return pkgerr.WithStack(e.clone())
}

// WrapMsg 追加 detail（支持 kv 对）并附带调用栈。
func (e *CodeError) WrapMsg(msg string, kv ...any) error {
	return pkgerr.WithStack(e.WithDetail(toString(msg, kv)))
}

// Is 按 code 判等，配合 errors.Is 使用。
func (e *CodeError) Is(err error) bool {
	var ce *CodeError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code == e.Code
}

// CodeOf 取出错误里的业务码；非 CodeError 返回 ServerInternalError。
func CodeOf(err error) int {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ServerInternalError
}

// New 普通错误 + 栈。
func New(msg string, kv ...any) error {
	return pkgerr.New(toString(msg, kv))
}

// Wrap 包装外部错误并附带栈；nil 直通。
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return pkgerr.WithStack(err)
}

// WrapMsg 包装外部错误、追加说明（kv 对）并附带栈。
func WrapMsg(err error, msg string, kv ...any) error {
	if err == nil {
		return nil
	}
	return pkgerr.Wrap(err, toString(msg, kv))
}

func toString(msg string, kv []any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		if i > 0 || msg != "" {
			sb.WriteString(", ")
		}
		sb.WriteString(toStr(kv[i]))
		sb.WriteString("=")
		if i+1 < len(kv) {
			sb.WriteString(toStr(kv[i+1]))
		}
	}
	return sb.String()
}

func toStr(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(strings.ReplaceAll(pkgerr.Errorf("%v", v).Error(), "\n", " "))
	}
}
