package world

import (
	"log/slog"
	"path/filepath"

	"github.com/kofuk/mclaunch/internal/launcher/core"
	"github.com/kofuk/mclaunch/internal/mc/leveldat"
	"github.com/kofuk/mclaunch/internal/mc/version"
	"github.com/kofuk/mclaunch/internal/stage"
)

type WorldMiddleware struct {
	stager *stage.Stager
}

var _ core.Middleware = (*WorldMiddleware)(nil)

func NewWorldMiddleware(stager *stage.Stager) *WorldMiddleware {
	return &WorldMiddleware{
		stager: stager,
	}
}

// checkWorldVersion only warns. Worlds are upgraded by newer servers and snapshots
// have names that are not versions at all.
func checkWorldVersion(c core.LauncherContext, worldDir string) {
	ld, err := leveldat.Read(filepath.Join(worldDir, stage.WorldMarker))
	if err != nil {
		slog.Warn("Unable to read world version", slog.Any("error", err))
		return
	}
	if ld.VersionName == "" {
		return
	}
	slog.Info("World was last played on", slog.String("version", ld.VersionName), slog.String("level_name", ld.LevelName))

	v, err := version.Parse(ld.VersionName)
	if err != nil {
		slog.Debug("World version is not comparable", slog.Any("error", err))
		return
	}

	rt := c.Plan().Runtime
	if rt == nil {
		return
	}
	set, err := version.ParseRangeSet(rt.Expression)
	if err != nil {
		return
	}
	if !set.Has(v) {
		slog.Warn("World version is outside the selected runtime",
			slog.String("world_version", ld.VersionName),
			slog.String("mc_versions", rt.Expression),
		)
	}
}

func (m *WorldMiddleware) Wrap(next core.HandlerFunc) core.HandlerFunc {
	return func(c core.LauncherContext) error {
		plan := c.Plan()

		worldDir, err := m.stager.StageMap(c.Context(), plan.Slug, plan.Map.WorldPath)
		if err != nil {
			return err
		}
		plan.WorldDir = worldDir

		checkWorldVersion(c, worldDir)

		return next(c)
	}
}
