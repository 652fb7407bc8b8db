// Package logx задаёт единый формат логов хендлеров: req_id, op, сообщение и пары ключ-значение.
package logx

import (
	"fmt"

	"go.uber.org/zap"
)

func Info(l *zap.Logger, reqID, op, msg string, kv ...any) {
	l.Info(msg, fields(reqID, op, kv)...)
}

func Warn(l *zap.Logger, reqID, op, msg string, kv ...any) {
	l.Warn(msg, fields(reqID, op, kv)...)
}

func Error(l *zap.Logger, reqID, op, msg string, err error, kv ...any) {
	fs := fields(reqID, op, kv)
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	l.Error(msg, fs...)
}

func fields(reqID, op string, kv []any) []zap.Field {
	fs := make([]zap.Field, 0, 2+len(kv)/2)
	fs = append(fs, zap.String("req_id", reqID), zap.String("op", op))
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fs = append(fs, zap.Any(key, kv[i+1]))
	}
	if len(kv)%2 == 1 {
		fs = append(fs, zap.Any("extra", kv[len(kv)-1]))
	}
	return fs
}
