package nbt_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/kofuk/mclaunch/internal/mc/nbt"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// root wraps payload into an unnamed root compound.
func root(payload ...byte) []byte {
	data := []byte{nbt.TagCompound, 0x0, 0x0}
	data = append(data, payload...)
	return append(data, nbt.TagEnd)
}

var _ = Describe("Reader", func() {
	DescribeTable("primitive types", func(data []byte, expected any) {
		c, err := nbt.NewReader(bytes.NewReader(root(data...))).ReadRoot()
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(HaveKeyWithValue("ab", expected))
	},
		Entry("TAG_Byte", []byte{0x1, 0x0, 0x2, 'a', 'b', 0xFE}, int8(-2)),
		Entry("TAG_Short", []byte{0x2, 0x0, 0x2, 'a', 'b', 0x0, 0x2}, int16(2)),
		Entry("TAG_Int", []byte{0x3, 0x0, 0x2, 'a', 'b', 0x0, 0x0, 0x0, 0x2}, int32(2)),
		Entry("TAG_Long", []byte{0x4, 0x0, 0x2, 'a', 'b', 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2}, int64(2)),
		Entry("TAG_Float", []byte{0x5, 0x0, 0x2, 'a', 'b', 0x40, 0x20, 0x0, 0x0}, float32(2.5)),
		Entry("TAG_Double", []byte{0x6, 0x0, 0x2, 'a', 'b', 0x40, 0x4, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0}, float64(2.5)),
		Entry("TAG_Byte_Array", []byte{0x7, 0x0, 0x2, 'a', 'b', 0x0, 0x0, 0x0, 0x2, 0x1, 0x2}, []byte{1, 2}),
		Entry("TAG_String", []byte{0x8, 0x0, 0x2, 'a', 'b', 0x0, 0x4, 'a', 'b', 'c', 'd'}, "abcd"),
		Entry("TAG_List", []byte{0x9, 0x0, 0x2, 'a', 'b', 0x2, 0x0, 0x0, 0x0, 0x2, 0x0, 0x1, 0x0, 0x2}, []any{int16(1), int16(2)}),
		Entry("empty TAG_List of TAG_End", []byte{0x9, 0x0, 0x2, 'a', 'b', 0x0, 0x0, 0x0, 0x0, 0x0}, []any{}),
		Entry("TAG_Int_Array", []byte{0xB, 0x0, 0x2, 'a', 'b', 0x0, 0x0, 0x0, 0x1, 0x0, 0x0, 0x0, 0x7}, []int32{7}),
		Entry("TAG_Long_Array", []byte{0xC, 0x0, 0x2, 'a', 'b', 0x0, 0x0, 0x0, 0x1, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x7}, []int64{7}),
	)

	It("should look up nested values", func() {
		data := root(
			0xA, 0x0, 0x4, 'D', 'a', 't', 'a', // TAG_Compound(Data)
			0xA, 0x0, 0x7, 'V', 'e', 'r', 's', 'i', 'o', 'n', // TAG_Compound(Version)
			0x8, 0x0, 0x4, 'N', 'a', 'm', 'e', 0x0, 0x6, '1', '.', '2', '0', '.', '1', // TAG_String(Name)
			0x3, 0x0, 0x2, 'I', 'd', 0x0, 0x0, 0xD, 0x5A, // TAG_Int(Id) = 3418
			0x0, // TAG_End
			0x0, // TAG_End
		)

		c, err := nbt.NewReader(bytes.NewReader(data)).ReadRoot()
		Expect(err).NotTo(HaveOccurred())

		name, ok := c.String("Data", "Version", "Name")
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("1.20.1"))

		id, ok := c.Int("Data", "Version", "Id")
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(int64(3418)))

		_, ok = c.String("Data", "Version", "Id")
		Expect(ok).To(BeFalse())
		_, ok = c.Lookup("Data", "Missing", "Name")
		Expect(ok).To(BeFalse())
	})

	It("should enforce the depth limit", func() {
		data := root(
			0xA, 0x0, 0x1, 'a',
			0xA, 0x0, 0x1, 'b',
			0x0,
			0x0,
		)

		_, err := nbt.NewReader(bytes.NewReader(data), nbt.WithMaxDepth(2)).ReadRoot()
		Expect(err).To(MatchError(nbt.ErrDepthExceeded))

		_, err = nbt.NewReader(bytes.NewReader(data), nbt.WithMaxDepth(3)).ReadRoot()
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("invalid data", func(data []byte, match error) {
		_, err := nbt.NewReader(bytes.NewReader(data)).ReadRoot()
		Expect(err).To(HaveOccurred())
		if match != nil {
			Expect(errors.Is(err, match)).To(BeTrue(), "unexpected error: %v", err)
		}
	},
		Entry("empty", []byte{}, io.EOF),
		Entry("root is not a compound", []byte{0x3, 0x0, 0x0, 0x0, 0x0, 0x0, 0x1}, nbt.ErrInvalidTag),
		Entry("EOF in root name", []byte{0xA, 0x0, 0x2, 'a'}, io.ErrUnexpectedEOF),
		Entry("missing TAG_End", []byte{0xA, 0x0, 0x0}, io.ErrUnexpectedEOF),
		Entry("invalid tag type", root(0xFF, 0x0, 0x1, 'a'), nbt.ErrInvalidTag),
		Entry("missing Short payload", root(0x2, 0x0, 0x0), io.ErrUnexpectedEOF),
		Entry("short Byte_Array", []byte{0xA, 0x0, 0x0, 0x7, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x1}, io.ErrUnexpectedEOF),
		Entry("negative Byte_Array length", root(0x7, 0x0, 0x0, 0xFF, 0xFF, 0xFF, 0xFF), nbt.ErrNegativeSize),
		Entry("short String", []byte{0xA, 0x0, 0x0, 0x8, 0x0, 0x0, 0x0, 0x2, 'A'}, io.ErrUnexpectedEOF),
		Entry("invalid List type", root(0x9, 0x0, 0x0, 0xFF, 0x0, 0x0, 0x0, 0x1), nbt.ErrInvalidTag),
		Entry("non-empty List of TAG_End", root(0x9, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x1), nbt.ErrInvalidTag),
	)
})

func Test(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "NBT Suite")
}
