package mapselect

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kofuk/mclaunch/internal/launcher/core"
	"github.com/kofuk/mclaunch/internal/operator"
	"github.com/kofuk/mclaunch/internal/stage"
)

var ErrNoMaps = errors.New("no maps in config")

type MapSelectMiddleware struct {
	operator operator.Operator
	index    int
}

var _ core.Middleware = (*MapSelectMiddleware)(nil)

// NewMapSelectMiddleware picks the map at the 1-based index, or asks op when index is 0.
func NewMapSelectMiddleware(op operator.Operator, index int) *MapSelectMiddleware {
	return &MapSelectMiddleware{
		operator: op,
		index:    index,
	}
}

func (m *MapSelectMiddleware) chooseIndex(c core.LauncherContext) (int, error) {
	if m.index != 0 {
		return m.index, nil
	}

	names := c.Config().MapNames()
	if len(names) == 0 {
		return 0, ErrNoMaps
	}

	choice, err := m.operator.Choose(c.Context(), "Maps:", names)
	if err != nil {
		return 0, err
	}
	return choice + 1, nil
}

func (m *MapSelectMiddleware) Wrap(next core.HandlerFunc) core.HandlerFunc {
	return func(c core.LauncherContext) error {
		index, err := m.chooseIndex(c)
		if err != nil {
			return err
		}

		selected, err := c.Config().SelectMap(index)
		if err != nil {
			return err
		}

		plan := c.Plan()
		plan.Map = selected
		plan.Slug = stage.Slugify(selected.Name)
		if plan.Slug == "" {
			return fmt.Errorf("map name %q does not produce a usable folder name", selected.Name)
		}

		slog.Info("Preparing the server for the map", slog.String("map", selected.Name), slog.String("folder", plan.Slug))

		return next(c)
	}
}
