package dfs

// Binary layout, little-endian throughout.
//
// Fixed header block:
//   0   magic "MTS1"
//   4   uint32  format version
//   8   int32   file type (geometry kind)
//   12  int32   time step count (patched on close of a created file)
//   16  int32   item count (incl. the dynamic Z pseudo-item for 3D kinds)
//   20  int32   node count
//   24  int32   element count
//   28  float64 delete value
//   36  int64   start time, unix nanoseconds
//   44  float64 time step, seconds
//   52  int32   z unit code
//
// Variable header block:
//   title, projection        length-prefixed strings
//   node x, y, z             nodeCount float64 each
//   node codes               nodeCount int32
//   element table            per element: int32 count, count int32 1-based ids
//   items                    per item: name string, int32 quantity, int32 unit
//
// Data section, one block per time step:
//   float64 elapsed seconds since start
//   per item: elementCount float64 samples

const (
	magic         = "MTS1"
	formatVersion = 1

	fixedHeaderSize     = 56
	timeStepCountOffset = 12

	// DeleteValue is the sentinel marking a missing sample in the file.
	DeleteValue = -1e-35
)

// FileType is the geometry kind of a container.
type FileType int32

const (
	FileType2D FileType = iota
	FileType3DSigma
	FileType3DSigmaZ
)

func (ft FileType) String() string {
	switch ft {
	case FileType2D:
		return "Dfsu2D"
	case FileType3DSigma:
		return "Dfsu3DSigma"
	case FileType3DSigmaZ:
		return "Dfsu3DSigmaZ"
	}
	return "DfsuUnknown"
}

// Is3D reports whether the geometry kind carries a leading dynamic Z
// pseudo-item at physical item number 1.
func (ft FileType) Is3D() bool {
	return ft == FileType3DSigma || ft == FileType3DSigmaZ
}
