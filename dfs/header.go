package dfs

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/hydroscale/meshts/eum"
	"github.com/hydroscale/meshts/mesh"
)

// readHeader parses the fixed and variable header blocks and rebuilds the
// stored mesh. On return the file offset bookkeeping (dataStart) is set.
func (df *File) readHeader() error {
	fi, err := df.f.Stat()
	if err != nil {
		return err
	}
	if _, err := df.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r := &headerReader{r: bufio.NewReader(df.f), limit: fi.Size()}

	var mg [4]byte
	r.bytes(mg[:])
	if r.err == nil && string(mg[:]) != magic {
		return fmt.Errorf("%w: %s: bad magic", ErrCorruptFile, df.path)
	}
	version := r.uint32()
	if r.err == nil && version != formatVersion {
		return fmt.Errorf("%w: %s: unsupported format version %d", ErrCorruptFile, df.path, version)
	}

	df.fileType = FileType(r.int32())
	df.timeStepCount = int(r.int32())
	df.itemCount = int(r.int32())
	df.nodeCount = int(r.int32())
	df.elementCount = int(r.int32())
	df.deleteValue = r.float64()
	df.startTime = time.Unix(0, r.int64()).UTC()
	df.dtSeconds = r.float64()
	df.zUnit = eum.Unit(r.int32())

	if r.err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptFile, df.path, r.err)
	}
	// Counts come straight from the file; reject them before they size any
	// allocation. A count can never exceed the file size in bytes.
	for _, c := range []int{df.timeStepCount, df.itemCount, df.nodeCount, df.elementCount} {
		if c < 0 || int64(c) > fi.Size() {
			return fmt.Errorf("%w: %s: implausible count %d in header", ErrCorruptFile, df.path, c)
		}
	}

	df.title = r.string()
	df.projection = r.string()

	msh := &mesh.Mesh{
		X:          r.float64s(df.nodeCount),
		Y:          r.float64s(df.nodeCount),
		Z:          r.float64s(df.nodeCount),
		Code:       r.int32s(df.nodeCount),
		Projection: df.projection,
		ZUnit:      df.zUnit,
	}
	msh.Elements = make([]mesh.Element, 0, df.elementCount)
	for j := 0; j < df.elementCount; j++ {
		n := int(r.int32())
		if r.err == nil && n != 3 && n != 4 {
			return fmt.Errorf("%w: %s: element %d has %d nodes", ErrCorruptFile, df.path, j, n)
		}
		ids := r.int32s(n)
		if r.err != nil {
			break
		}
		// Node ids are stored 1-based
		if n == 3 {
			msh.Elements = append(msh.Elements, mesh.NewTriangle(int(ids[0])-1, int(ids[1])-1, int(ids[2])-1))
		} else {
			msh.Elements = append(msh.Elements,
				mesh.NewQuad(int(ids[0])-1, int(ids[1])-1, int(ids[2])-1, int(ids[3])-1))
		}
	}

	df.items = make([]eum.ItemInfo, df.itemCount)
	for i := range df.items {
		df.items[i].Name = r.string()
		df.items[i].Quantity = eum.Quantity(r.int32())
		df.items[i].Unit = eum.Unit(r.int32())
	}

	if r.err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptFile, df.path, r.err)
	}
	if err := msh.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptFile, df.path, err)
	}
	df.msh = msh
	df.dataStart = int64(fixedHeaderSize) + r.varBytes
	return nil
}

// headerReader decodes the little-endian header stream, latching the first
// error so call sites stay linear.
type headerReader struct {
	r        io.Reader
	err      error
	limit    int64 // file size; bounds every length prefix
	pos      int64
	varBytes int64 // bytes consumed past the fixed block
}

func (h *headerReader) bytes(buf []byte) {
	if h.err != nil {
		return
	}
	if _, h.err = io.ReadFull(h.r, buf); h.err != nil {
		return
	}
	h.pos += int64(len(buf))
	if h.pos > fixedHeaderSize {
		h.varBytes = h.pos - fixedHeaderSize
	}
}

func (h *headerReader) uint32() uint32 {
	var buf [4]byte
	h.bytes(buf[:])
	if h.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(buf[:])
}

func (h *headerReader) int32() int32 { return int32(h.uint32()) }

func (h *headerReader) int64() int64 {
	var buf [8]byte
	h.bytes(buf[:])
	if h.err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

func (h *headerReader) float64() float64 {
	return math.Float64frombits(uint64(h.int64()))
}

func (h *headerReader) string() string {
	n := h.uint32()
	if h.err != nil || n == 0 {
		return ""
	}
	if int64(n) > h.limit {
		h.err = fmt.Errorf("string length %d exceeds file size %d", n, h.limit)
		return ""
	}
	buf := make([]byte, n)
	h.bytes(buf)
	if h.err != nil {
		return ""
	}
	return string(buf)
}

func (h *headerReader) float64s(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = h.float64()
	}
	return out
}

func (h *headerReader) int32s(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = h.int32()
	}
	return out
}

// headerWriter is the encode side, used by Builder.CreateFile.
type headerWriter struct {
	w   *bufio.Writer
	err error
	pos int64
}

func (h *headerWriter) bytes(buf []byte) {
	if h.err != nil {
		return
	}
	var n int
	n, h.err = h.w.Write(buf)
	h.pos += int64(n)
}

func (h *headerWriter) uint32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	h.bytes(buf[:])
}

func (h *headerWriter) int32(v int32) { h.uint32(uint32(v)) }

func (h *headerWriter) int64(v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	h.bytes(buf[:])
}

func (h *headerWriter) float64(v float64) { h.int64(int64(math.Float64bits(v))) }

func (h *headerWriter) string(s string) {
	h.uint32(uint32(len(s)))
	h.bytes([]byte(s))
}

func (h *headerWriter) float64s(vals []float64) {
	for _, v := range vals {
		h.float64(v)
	}
}

func (h *headerWriter) int32s(vals []int32) {
	for _, v := range vals {
		h.int32(v)
	}
}
