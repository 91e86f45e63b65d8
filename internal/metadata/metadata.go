package metadata

import "runtime/debug"

// Revision is overridden at link time with -ldflags "-X .../metadata.Revision=...".
var Revision = "dev"

func init() {
	if Revision != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			Revision = s.Value
		}
	}
}
