package version

import (
	"runtime"
	"time"
)

// Overridden at build time with -ldflags "-X ...".
var (
	Version   = "dev"                           // ex: v0.3.0
	Commit    = "none"                          // ex: 4f1c2ab
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-17T09:12:00Z
	GoVersion = runtime.Version()
)
