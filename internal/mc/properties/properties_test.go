package properties_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kofuk/mclaunch/internal/mc/properties"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const sample = `#Minecraft server properties
#Sat Jun 10 12:00:00 JST 2023
enable-jmx-monitoring=false
level-name = world
motd=A Minecraft Server

resource-pack=
require-resource-pack=false`

func render(doc *properties.Document) string {
	out := new(strings.Builder)
	_, err := doc.WriteTo(out)
	Expect(err).NotTo(HaveOccurred())
	return out.String()
}

var _ = Describe("Document", func() {
	It("should reproduce an unmodified file byte for byte", func() {
		doc, err := properties.Parse(strings.NewReader(sample))
		Expect(err).NotTo(HaveOccurred())
		Expect(render(doc)).To(Equal(sample))
	})

	It("should keep CRLF terminators", func() {
		input := "a=1\r\n#x\r\nb=2"
		doc, err := properties.Parse(strings.NewReader(input))
		Expect(err).NotTo(HaveOccurred())
		Expect(render(doc)).To(Equal(input))
	})

	It("should never terminate the last line", func() {
		doc, err := properties.Parse(strings.NewReader("a=1\nb=2\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(render(doc)).To(Equal("a=1\nb=2"))
	})

	It("should look up values by their trimmed key", func() {
		doc, err := properties.Parse(strings.NewReader(sample))
		Expect(err).NotTo(HaveOccurred())

		value, ok := doc.Get("level-name")
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal(" world"))

		_, ok = doc.Get("difficulty")
		Expect(ok).To(BeFalse())
		Expect(doc.GetOr("difficulty", "easy")).To(Equal("easy"))
		Expect(doc.Keys()).To(Equal([]string{"enable-jmx-monitoring", "level-name", "motd", "resource-pack", "require-resource-pack"}))
	})

	It("should update an existing key in place, keeping its spelling", func() {
		doc, err := properties.Parse(strings.NewReader(sample))
		Expect(err).NotTo(HaveOccurred())

		doc.Set("level-name", "forgotten-ruins")

		lines := strings.Split(render(doc), "\n")
		Expect(lines).To(HaveLen(8))
		Expect(lines[3]).To(Equal("level-name =forgotten-ruins"))
	})

	It("should append exactly one line for a new key", func() {
		doc, err := properties.Parse(strings.NewReader(sample))
		Expect(err).NotTo(HaveOccurred())

		doc.Set("resource-pack-prompt", "Please")

		Expect(render(doc)).To(Equal(sample + "\nresource-pack-prompt=Please"))

		doc.Set("resource-pack-prompt", "Again")
		Expect(render(doc)).To(Equal(sample + "\nresource-pack-prompt=Again"))
	})

	It("should treat indented comments and blank lines as verbatim", func() {
		doc, err := properties.Parse(strings.NewReader("  # indented\n\nkey=value"))
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Keys()).To(Equal([]string{"key"}))
	})

	It("should keep everything after the first separator as the value", func() {
		doc, err := properties.Parse(strings.NewReader("motd=a=b"))
		Expect(err).NotTo(HaveOccurred())
		value, _ := doc.Get("motd")
		Expect(value).To(Equal("a=b"))
	})

	It("should reject a line without a separator", func() {
		_, err := properties.Parse(strings.NewReader("a=1\nbroken\n"))
		Expect(err).To(MatchError(properties.ErrMalformedLine))
		Expect(err.Error()).To(ContainSubstring("line 2"))
	})

	It("should reject duplicate keys", func() {
		_, err := properties.Parse(strings.NewReader("a=1\n a =2"))
		Expect(err).To(MatchError(properties.ErrDuplicateKey))
		Expect(err.Error()).To(ContainSubstring(`"a"`))
	})

	It("should handle an empty file", func() {
		doc, err := properties.Parse(strings.NewReader(""))
		Expect(err).NotTo(HaveOccurred())
		doc.Set("level-name", "world")
		Expect(render(doc)).To(Equal("level-name=world"))
	})

	It("should save to and load from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "server.properties")
		Expect(os.WriteFile(path, []byte(sample), 0644)).To(Succeed())

		doc, err := properties.Load(path)
		Expect(err).NotTo(HaveOccurred())
		doc.Set("require-resource-pack", "true")
		Expect(doc.Save(path)).To(Succeed())

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal(strings.Replace(sample, "require-resource-pack=false", "require-resource-pack=true", 1)))
	})

	It("should name the file when loading fails", func() {
		path := filepath.Join(GinkgoT().TempDir(), "server.properties")
		Expect(os.WriteFile(path, []byte("oops"), 0644)).To(Succeed())

		_, err := properties.Load(path)
		Expect(err).To(MatchError(properties.ErrMalformedLine))
		Expect(err.Error()).To(ContainSubstring(path))
	})
})

func Test(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Properties Suite")
}
