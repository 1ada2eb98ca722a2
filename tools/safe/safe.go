package safe

import (
	"github.com/tuta081098/chat-moji/logger"
	"github.com/tuta081098/chat-moji/tools/errs"
)

// Go 启动带 recover 的 goroutine：单个连接/事件 panic 不拖垮整个进程。
// name 用于日志定位（如 "ws.writePump"）。
func Go(name string, f func()) {
	go func() {
		defer Recover(name)
		f()
	}()
}

// Recover 供 defer 直接使用；吞掉 panic 并记录。
func Recover(name string) {
	if r := recover(); r != nil {
		logger.Errorf("[safe] %s panic recovered: %+v", name, errs.ErrPanic(r))
	}
}

// Call 在当前 goroutine 内隔离执行 f，panic 转换为 error 返回。
// 事件处理器统一走这里，保证一条坏消息不会 unwind 到读循环之外。
func Call(name string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.ErrPanic(r)
			logger.Errorf("[safe] %s panic recovered: %v", name, r)
		}
	}()
	return f()
}
