package supervisor_test

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/kofuk/mclaunch/internal/fileserver"
	"github.com/kofuk/mclaunch/internal/mc/properties"
	"github.com/kofuk/mclaunch/internal/supervisor"
	"github.com/kofuk/mclaunch/internal/system"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

const queryOutput = `Name: java
Link: /usr/bin/java
Slaves:
 java.1.gz /usr/share/man/man1/java.1.gz
Status: auto
Best: /usr/lib/jvm/java-21-openjdk-amd64/bin/java
Value: /usr/lib/jvm/java-21-openjdk-amd64/bin/java

Alternative: /usr/lib/jvm/java-17-openjdk-amd64/bin/java
Priority: 1711
Slaves:
 java.1.gz /usr/lib/jvm/java-17-openjdk-amd64/man/man1/java.1.gz

Alternative: /usr/lib/jvm/java-21-openjdk-amd64/bin/java
Priority: 2111
Slaves:
 java.1.gz /usr/lib/jvm/java-21-openjdk-amd64/man/man1/java.1.gz
`

type recordingStopper struct {
	marker        string
	calls         int
	sawExitMarker bool
}

func (s *recordingStopper) Stop() error {
	s.calls++
	if _, err := os.Stat(s.marker); err == nil {
		s.sawExitMarker = true
	}
	return nil
}

type recordingTerminator struct {
	calls int
}

func (t *recordingTerminator) Terminate(p *os.Process) error {
	t.calls++
	return nil
}

var _ = Describe("BuildArgv", func() {
	It("should order java, its arguments, the jar, then jar arguments", func() {
		argv := supervisor.BuildArgv("/opt/java", []string{"-Xmx2G", "-Xms2G"}, "server.jar", []string{"nogui"})
		Expect(argv).To(Equal([]string{
			filepath.Join("/opt/java", "bin", "java"), "-Xmx2G", "-Xms2G", "-jar", "server.jar", "nogui",
		}))
	})

	It("should fall back to java on PATH", func() {
		Expect(supervisor.BuildArgv("", nil, "server.jar", nil)).To(Equal([]string{"java", "-jar", "server.jar"}))
	})
})

var _ = Describe("FindJavaHome", func() {
	var (
		ctrl     *gomock.Controller
		executor *system.MockCommandExecutor
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		executor = system.NewMockCommandExecutor(ctrl)
	})

	It("should use the best alternative", func() {
		executor.EXPECT().Run(gomock.Any(), "update-alternatives", []string{"--query", "java"}, gomock.Any()).DoAndReturn(
			func(ctx context.Context, path string, args []string, options ...system.CmdOption) error {
				cmd := exec.Command(path)
				system.Apply(cmd, options...)
				_, err := io.WriteString(cmd.Stdout, queryOutput)
				return err
			})

		Expect(supervisor.FindJavaHome(GinkgoT().Context(), executor)).To(Equal("/usr/lib/jvm/java-21-openjdk-amd64"))
	})

	It("should return empty home when alternatives are unavailable", func() {
		executor.EXPECT().Run(gomock.Any(), "update-alternatives", gomock.Any(), gomock.Any()).Return(errors.New("not found"))

		Expect(supervisor.FindJavaHome(GinkgoT().Context(), executor)).To(BeEmpty())
	})
})

var _ = Describe("Supervisor", func() {
	var (
		dir    string
		marker string
	)

	BeforeEach(func() {
		if runtime.GOOS == "windows" {
			Skip("requires a POSIX shell")
		}
		dir = GinkgoT().TempDir()
		marker = filepath.Join(dir, "exited")
	})

	It("should stop cleanup targets after the server exits", func() {
		stopper := &recordingStopper{marker: marker}
		sut := supervisor.New()

		err := sut.Run(GinkgoT().Context(), []string{"sh", "-c", "touch " + marker}, stopper)
		Expect(err).NotTo(HaveOccurred())
		Expect(stopper.calls).To(Equal(1))
		Expect(stopper.sawExitMarker).To(BeTrue())
	})

	It("should not report the exit code as an error", func() {
		sut := supervisor.New()
		Expect(sut.Run(GinkgoT().Context(), []string{"sh", "-c", "exit 4"})).To(Succeed())
	})

	It("should stop cleanup targets even if the server cannot start", func() {
		stopper := &recordingStopper{marker: marker}
		sut := supervisor.New()

		err := sut.Run(GinkgoT().Context(), []string{filepath.Join(dir, "no-such-java")}, stopper)
		Expect(err).To(HaveOccurred())
		Expect(stopper.calls).To(Equal(1))
	})

	It("should terminate the server on interrupt", func() {
		ctx, cancel := context.WithCancel(GinkgoT().Context())
		cancel()

		server := fileserver.New()
		Expect(server.Start(dir, "127.0.0.1", 0, fileserver.NewLifecycle())).To(Succeed())

		sut := supervisor.New(supervisor.WithStopGrace(5 * time.Second))
		start := time.Now()
		Expect(sut.Run(ctx, []string{"sh", "-c", "exec sleep 30"}, server)).To(Succeed())
		Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))
		Expect(server.State()).To(Equal(fileserver.StateStopped))
	})

	It("should kill a server that ignores the terminate request", func() {
		ctx, cancel := context.WithCancel(GinkgoT().Context())
		defer cancel()
		go func() {
			time.Sleep(200 * time.Millisecond)
			cancel()
		}()

		server := fileserver.New()
		Expect(server.Start(dir, "127.0.0.1", 0, fileserver.NewLifecycle())).To(Succeed())

		terminator := &recordingTerminator{}
		sut := supervisor.New(supervisor.WithTerminator(terminator), supervisor.WithStopGrace(100*time.Millisecond))
		Expect(sut.Run(ctx, []string{"sh", "-c", "exec sleep 30"}, server)).To(Succeed())
		Expect(terminator.calls).To(Equal(1))
		Expect(server.State()).To(Equal(fileserver.StateStopped))
	})

	It("should run in the configured working directory", func() {
		sut := supervisor.New(supervisor.WithCmdOptions(system.WithWorkingDir(dir)))
		Expect(sut.Run(GinkgoT().Context(), []string{"sh", "-c", "touch exited"})).To(Succeed())
		Expect(marker).To(BeAnExistingFile())
	})
})

var _ = Describe("RconTerminator", func() {
	It("should fall back when rcon is unreachable", func() {
		fallback := &recordingTerminator{}
		sut := &supervisor.RconTerminator{
			Addr:     "127.0.0.1:1",
			Password: "x",
			Timeout:  time.Second,
			Fallback: fallback,
		}

		Expect(sut.Terminate(nil)).To(Succeed())
		Expect(fallback.calls).To(Equal(1))
	})

	It("should read rcon settings from server.properties", func() {
		doc := properties.New()
		doc.Set("enable-rcon", "true")
		doc.Set("rcon.password", "secret")
		doc.Set("rcon.port", "25580")

		sut := supervisor.RconTerminatorFor(doc)
		Expect(sut).NotTo(BeNil())
		Expect(sut.Addr).To(Equal("127.0.0.1:25580"))
		Expect(sut.Password).To(Equal("secret"))
	})

	It("should be disabled when rcon is off", func() {
		doc := properties.New()
		doc.Set("enable-rcon", "false")
		doc.Set("rcon.password", "secret")

		Expect(supervisor.RconTerminatorFor(doc)).To(BeNil())
	})
})

func Test(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Supervisor Suite")
}
