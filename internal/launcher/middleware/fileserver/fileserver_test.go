package fileserver_test

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/kofuk/mclaunch/internal/config"
	"github.com/kofuk/mclaunch/internal/env"
	fs "github.com/kofuk/mclaunch/internal/fileserver"
	"github.com/kofuk/mclaunch/internal/gameconfig"
	"github.com/kofuk/mclaunch/internal/launcher/core"
	"github.com/kofuk/mclaunch/internal/launcher/middleware/fileserver"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FileServerMiddleware", func() {
	var (
		tempDir  string
		settings config.Settings
		launcher *core.LauncherCore
		withPack bool
		inner    func(c core.LauncherContext) error
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		Expect(os.MkdirAll(filepath.Join(tempDir, "www"), 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(tempDir, "www", "ressources.zip"), []byte("pack"), 0644)).To(Succeed())

		settings = config.Default()
		settings.WebInterface = "127.0.0.1"
		settings.WebPort = 0
		withPack = true

		launcher = core.NewLauncherCore(&settings, &gameconfig.Config{}, env.NewPathProvider(tempDir, "tmp"))
		launcher.Use(core.MiddlewareFunc(func(next core.HandlerFunc) core.HandlerFunc {
			return func(c core.LauncherContext) error {
				return inner(c)
			}
		}))
		launcher.Use(fileserver.NewFileServerMiddleware())
		launcher.Use(core.MiddlewareFunc(func(next core.HandlerFunc) core.HandlerFunc {
			return func(c core.LauncherContext) error {
				if withPack {
					c.Plan().ResourcePack = filepath.Join(tempDir, "www", "ressources.zip")
				}
				return next(c)
			}
		}))
	})

	It("should serve the pack while the server runs and stop afterwards", func() {
		var server *fs.Server
		inner = func(c core.LauncherContext) error {
			Expect(c.Plan().Ancillary).To(HaveLen(1))
			server = c.Plan().Ancillary[0].(*fs.Server)
			Expect(server.State()).To(Equal(fs.StateRunning))

			resp, err := http.Get("http://" + server.Addr().String() + "/ressources.zip")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal("pack"))
			return nil
		}

		Expect(launcher.Start(GinkgoT().Context())).To(Succeed())
		Expect(server.State()).To(Equal(fs.StateStopped))
	})

	It("should not start without a pack", func() {
		withPack = false
		inner = func(c core.LauncherContext) error {
			Expect(c.Plan().Ancillary).To(BeEmpty())
			return nil
		}

		Expect(launcher.Start(GinkgoT().Context())).To(Succeed())
	})
})

func Test(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FileServerMiddleware Suite")
}
