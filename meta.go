// meta.bin (§6): the index registry — ordered segment file list and the
// options an Index was opened with. The last-issued doc_id isn't
// persisted separately: ULIDs embed a timestamp, so the next generator
// simply starts from wall-clock time and monotonicity is preserved
// without needing to remember the previous value.
package blaze

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

var metaMagic = [4]byte{'M', 'M', 'E', 'T'}

type metaFile struct {
	Segments    []string
	Compression CompressionMode
	BM25        BM25Parameters
}

func encodeMeta(m metaFile) []byte {
	var buf bytes.Buffer
	buf.Write(metaMagic[:])
	putUvarint(&buf, uint64(len(m.Segments)))
	for _, s := range m.Segments {
		putString(&buf, s)
	}
	putString(&buf, string(m.Compression))
	var f [16]byte
	binary.LittleEndian.PutUint64(f[0:8], math.Float64bits(m.BM25.K1))
	binary.LittleEndian.PutUint64(f[8:16], math.Float64bits(m.BM25.B))
	buf.Write(f[:])
	return buf.Bytes()
}

func decodeMeta(data []byte) (metaFile, error) {
	if len(data) < 4 || [4]byte(data[:4]) != metaMagic {
		return metaFile{}, fmt.Errorf("meta: bad magic")
	}
	r := newVarReader(data[4:])
	n, err := r.uvarint()
	if err != nil {
		return metaFile{}, err
	}
	segs := make([]string, n)
	for i := range segs {
		s, err := r.str()
		if err != nil {
			return metaFile{}, err
		}
		segs[i] = s
	}
	comp, err := r.str()
	if err != nil {
		return metaFile{}, err
	}
	if r.pos+16 > len(r.data) {
		return metaFile{}, fmt.Errorf("meta: truncated bm25 params")
	}
	k1 := math.Float64frombits(binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8]))
	b := math.Float64frombits(binary.LittleEndian.Uint64(r.data[r.pos+8 : r.pos+16]))
	return metaFile{Segments: segs, Compression: CompressionMode(comp), BM25: BM25Parameters{K1: k1, B: b}}, nil
}

func readMetaFile(path string) (metaFile, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return metaFile{}, false, nil
	}
	if err != nil {
		return metaFile{}, false, err
	}
	m, err := decodeMeta(data)
	return m, true, err
}
