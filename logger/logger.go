package logger

import "go.uber.org/zap"

// Log is a no-op until Init is called, so packages can log unconditionally.
var Log = zap.NewNop()

func Init(production bool) {
	if production {
		Log = zap.Must(zap.NewProduction())
		return
	}
	Log = zap.Must(zap.NewDevelopment())
}

func Sync() {
	_ = Log.Sync()
}
