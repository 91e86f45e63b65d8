package world_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kofuk/mclaunch/internal/config"
	"github.com/kofuk/mclaunch/internal/env"
	"github.com/kofuk/mclaunch/internal/gameconfig"
	"github.com/kofuk/mclaunch/internal/launcher/core"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/world"
	"github.com/kofuk/mclaunch/internal/operator"
	"github.com/kofuk/mclaunch/internal/stage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("WorldMiddleware", func() {
	var (
		tempDir  string
		op       *operator.MockOperator
		launcher *core.LauncherCore
		plan     *core.Plan
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		ctrl := gomock.NewController(GinkgoT())
		op = operator.NewMockOperator(ctrl)
		paths := env.NewPathProvider(tempDir, "tmp")

		source := filepath.Join(tempDir, "maps", "download", "Ruins")
		Expect(os.MkdirAll(filepath.Join(source, "playerdata"), 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(source, "level.dat"), []byte("not nbt"), 0644)).To(Succeed())

		plan = nil
		settings := config.Default()
		launcher = core.NewLauncherCore(&settings, &gameconfig.Config{}, paths)
		launcher.Use(core.StopMiddleware)
		launcher.Use(world.NewWorldMiddleware(stage.NewStager(paths, op)))
		launcher.Use(core.MiddlewareFunc(func(next core.HandlerFunc) core.HandlerFunc {
			return func(c core.LauncherContext) error {
				plan = c.Plan()
				plan.Map = &gameconfig.MapDefinition{Name: "Ruins", MinecraftVersion: "1.20.1", WorldPath: "maps"}
				plan.Slug = "ruins"
				plan.Runtime = &gameconfig.RuntimeEntry{Expression: "1.20.*"}
				return next(c)
			}
		}))
	})

	It("should copy the world into the slug folder", func() {
		Expect(launcher.Start(GinkgoT().Context())).To(Succeed())
		Expect(plan.WorldDir).To(Equal(filepath.Join(tempDir, "ruins")))
		Expect(filepath.Join(plan.WorldDir, "level.dat")).To(BeAnExistingFile())
	})

	It("should stop when the operator aborts", func() {
		Expect(os.MkdirAll(filepath.Join(tempDir, "ruins"), 0755)).To(Succeed())
		op.EXPECT().Choose(gomock.Any(), gomock.Any(), gomock.Any()).Return(int(stage.PolicyAbort), nil)

		Expect(launcher.Start(GinkgoT().Context())).To(MatchError(stage.ErrOperatorAborted))
		Expect(plan.WorldDir).To(BeEmpty())
	})
})

func Test(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "WorldMiddleware Suite")
}
