package logger

import (
	"go.uber.org/zap"
)

var L *zap.Logger = zap.NewNop()

func New() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	L = l
	return l
}
