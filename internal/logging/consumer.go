package logging

import (
	"go.uber.org/zap"

	"github.com/brentfarrar/dcgo/diag"
)

// DiagConsumer adapts env.DiagnosticConsumer to zap, so a host that
// already logs through zap gets dcgo's diagnostics in the same stream
// instead of on a separate fmt.Println sink (env.ConsoleConsumer).
type DiagConsumer struct {
	Logger *zap.Logger
}

func NewDiagConsumer(logger *zap.Logger) *DiagConsumer {
	return &DiagConsumer{Logger: logger}
}

func (c *DiagConsumer) HandleDiagnostic(d *diag.Diagnostic) {
	c.Logger.Warn("diagnostic", zap.String("code", d.Code.String()), zap.Error(d))
}

func (c *DiagConsumer) OnPostFlush() {
	_ = c.Logger.Sync()
}
