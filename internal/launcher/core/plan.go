package core

import (
	"github.com/kofuk/mclaunch/internal/gameconfig"
	"github.com/kofuk/mclaunch/internal/mc/properties"
)

// Stopper is shut down after the server process has exited.
type Stopper interface {
	Stop() error
}

// Plan collects what the middlewares decide on the way to launching the server.
type Plan struct {
	Map        *gameconfig.MapDefinition
	Slug       string
	Runtime    *gameconfig.RuntimeEntry
	SubRuntime *gameconfig.SubRuntimeEntry

	JarPath  string
	JavaHome string
	WorldDir string

	// ResourcePack is the staged pack below the web root, empty if there is none.
	ResourcePack    string
	ResourcePackURL string

	Properties *properties.Document

	// Ancillary services live exactly as long as the server process.
	Ancillary []Stopper
}

func (p *Plan) AddAncillary(s Stopper) {
	p.Ancillary = append(p.Ancillary, s)
}
