package errs

import (
	"fmt"

	pkgerr "github.com/pkg/errors"
)

// ErrPanic 把 recover() 的值转成带栈的 CodeError。
func ErrPanic(r any) error {
	if r == nil {
		return nil
	}
	err := &CodeError{
		Code:   ServerInternalError,
		Msg:    "panic error",
		Detail: fmt.Sprint(r),
	}
	return pkgerr.WithStack(err)
}
