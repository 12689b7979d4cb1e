package text

import (
	"log/slog"

	"github.com/gogpu/starmap"
)

// logger returns the module-wide logger so SetLogger on the root
// package covers text as well.
func logger() *slog.Logger { return starmap.Logger() }
