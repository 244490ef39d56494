package events

import (
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                6,
}

// DebugLogger returns a match-all handler that writes every event to log at
// debug level.
func DebugLogger(log *zap.Logger) AllHandler {
	return func(name Name, payload any) {
		if ce := log.Check(zap.DebugLevel, "event"); ce != nil {
			ce.Write(zap.String("name", string(name)), zap.String("payload", dumper.Sdump(payload)))
		}
	}
}
