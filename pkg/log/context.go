package log

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"

	"go.uber.org/zap/zapcore"
)

const emptyRequestId = "-"

var (
	Contexts sync.Map
)

type Context struct {
	RequestId string
}

// SetContext binds a request id to the calling goroutine until DelContext.
func SetContext(requestId string) {
	if requestId == "" {
		requestId = emptyRequestId
	}
	Contexts.Store(goid(), Context{RequestId: requestId})
}

func GetContext() Context {
	if v, ok := Contexts.Load(goid()); ok {
		if ctx, ok := v.(Context); ok {
			return ctx
		}
	}
	return Context{RequestId: emptyRequestId}
}

func DelContext() {
	Contexts.Delete(goid())
}

func CallerEncoder(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(GetContext().RequestId)
	enc.AppendString(caller.TrimmedPath())
}

func goid() int64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseInt(string(b), 10, 64)
	return id
}
