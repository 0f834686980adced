package kubewrap

import (
	"io"

	"github.com/common-fate/kubecred/pkg/secretguard"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns the step log: a console logger without timestamps
// writing to w through the masker.
func NewLogger(m *secretguard.Masker, w io.Writer, level zapcore.Level) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(m.Writer(w)),
		level,
	)
	return zap.New(core).Sugar()
}
