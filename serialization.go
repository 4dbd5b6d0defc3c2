// Segment file format (§6): header + four length-framed sections.
//
//	header:  magic "MSSG" (4 bytes), u32 version, u8 compression flag
//	section 1: doc table      — doc_id, length_tokens, text, deleted_flag
//	section 2: term dictionary — sorted term list (rebuilds the trie on load)
//	section 3: term postings   — per term: df, (doc local-index delta,
//	                              tf, delta-varint positions) per posting
//	section 4: stats           — N (live doc count), total tokens
//
// All multi-byte integers little-endian; strings length-prefixed UTF-8,
// matching §6. Doc-ids within a posting are stored as deltas over the
// posting's *local* doc index (its position in the segment's doc table)
// rather than delta-encoding the ULID text itself — the source's
// delta-varint doc_ids assumed small integer ids; since postings are
// appended in increasing doc order, local index deltas preserve the same
// "mostly small deltas" property bincode's varints exploit, encoded here
// with encoding/binary the way serialization.go already did for the
// teacher's skip-list format.
package blaze

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/golang/snappy"
)

var segmentMagic = [4]byte{'M', 'S', 'S', 'G'}

const segmentVersion = 1

const (
	compressFlagNone   byte = 0
	compressFlagSnappy byte = 1
)

func compressionFlag(c CompressionMode) byte {
	if c == CompressionSnappy {
		return compressFlagSnappy
	}
	return compressFlagNone
}

// EncodeSegment serializes seg to the .seg binary format.
func EncodeSegment(seg *Segment, compression CompressionMode) ([]byte, error) {
	var out bytes.Buffer
	out.Write(segmentMagic[:])
	var verBuf [4]byte
	binary.LittleEndian.PutUint32(verBuf[:], segmentVersion)
	out.Write(verBuf[:])
	out.WriteByte(compressionFlag(compression))

	sections := [][]byte{
		encodeDocTable(seg),
		encodeDictionary(seg),
		encodePostings(seg),
		encodeStats(seg),
	}
	for _, raw := range sections {
		framed := raw
		if compression == CompressionSnappy {
			framed = snappy.Encode(nil, raw)
		}
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(framed)))
		out.Write(lenBuf[:])
		out.Write(framed)
	}
	return out.Bytes(), nil
}

func encodeDocTable(seg *Segment) []byte {
	var buf bytes.Buffer
	putUvarint(&buf, uint64(len(seg.docOrder)))
	for i, docID := range seg.docOrder {
		putString(&buf, docID)
		entry := seg.docEntries[i]
		putUvarint(&buf, uint64(entry.Length))
		putString(&buf, entry.Text)
		deleted := byte(0)
		if !seg.live.Contains(uint32(i)) {
			deleted = 1
		}
		buf.WriteByte(deleted)
	}
	return buf.Bytes()
}

func encodeDictionary(seg *Segment) []byte {
	terms := sortedTerms(seg.terms)
	var buf bytes.Buffer
	putUvarint(&buf, uint64(len(terms)))
	for _, t := range terms {
		putString(&buf, t)
	}
	return buf.Bytes()
}

func sortedTerms(m map[string]*PostingList) []string {
	terms := make([]string, 0, len(m))
	for t := range m {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

func encodePostings(seg *Segment) []byte {
	terms := sortedTerms(seg.terms)
	var buf bytes.Buffer
	putUvarint(&buf, uint64(len(terms)))
	for _, term := range terms {
		pl := seg.terms[term]
		putString(&buf, term)
		putUvarint(&buf, uint64(pl.Len()))
		prevIdx := 0
		for _, p := range pl.Postings {
			localIdx := seg.docIndex[p.DocID]
			putUvarint(&buf, uint64(localIdx-prevIdx))
			prevIdx = localIdx
			putUvarint(&buf, uint64(p.TF))
			putUvarint(&buf, uint64(len(p.Positions)))
			prevPos := 0
			for _, pos := range p.Positions {
				putUvarint(&buf, uint64(pos-prevPos))
				prevPos = pos
			}
		}
	}
	return buf.Bytes()
}

func encodeStats(seg *Segment) []byte {
	var buf bytes.Buffer
	putUvarint(&buf, uint64(seg.LiveCount()))
	putUvarint(&buf, uint64(seg.totalTokens))
	return buf.Bytes()
}

// DecodeSegment reconstructs a Segment from .seg bytes.
func DecodeSegment(data []byte) (*Segment, error) {
	if len(data) < 9 || [4]byte(data[:4]) != segmentMagic {
		return nil, fmt.Errorf("segment: bad magic")
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != segmentVersion {
		return nil, fmt.Errorf("segment: unsupported version %d", version)
	}
	compressed := data[8] == compressFlagSnappy
	offset := 9

	readSection := func() ([]byte, error) {
		if offset+4 > len(data) {
			return nil, fmt.Errorf("segment: truncated section length")
		}
		n := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		offset += 4
		if offset+n > len(data) {
			return nil, fmt.Errorf("segment: truncated section body")
		}
		raw := data[offset : offset+n]
		offset += n
		if compressed {
			return snappy.Decode(nil, raw)
		}
		return raw, nil
	}

	docTableRaw, err := readSection()
	if err != nil {
		return nil, err
	}
	dictRaw, err := readSection()
	if err != nil {
		return nil, err
	}
	postingsRaw, err := readSection()
	if err != nil {
		return nil, err
	}
	_, err = readSection() // stats are recomputed on load (§3), not trusted.
	if err != nil {
		return nil, err
	}

	seg := NewSegment()
	if err := decodeDocTable(seg, docTableRaw); err != nil {
		return nil, err
	}
	if err := decodeDictionary(seg, dictRaw); err != nil {
		return nil, err
	}
	if err := decodePostings(seg, postingsRaw); err != nil {
		return nil, err
	}
	return seg, nil
}

func decodeDocTable(seg *Segment, raw []byte) error {
	r := newVarReader(raw)
	n, err := r.uvarint()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		docID, err := r.str()
		if err != nil {
			return err
		}
		length, err := r.uvarint()
		if err != nil {
			return err
		}
		text, err := r.str()
		if err != nil {
			return err
		}
		deleted, err := r.byte()
		if err != nil {
			return err
		}
		idx := len(seg.docOrder)
		seg.docIndex[docID] = idx
		seg.docOrder = append(seg.docOrder, docID)
		seg.docEntries = append(seg.docEntries, docEntry{DocID: docID, Length: int(length), Text: text})
		if deleted == 0 {
			seg.live.Add(uint32(idx))
			seg.totalTokens += int64(length)
		}
	}
	return nil
}

func decodeDictionary(seg *Segment, raw []byte) error {
	r := newVarReader(raw)
	n, err := r.uvarint()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		term, err := r.str()
		if err != nil {
			return err
		}
		seg.trie.Insert(term)
	}
	return nil
}

func decodePostings(seg *Segment, raw []byte) error {
	r := newVarReader(raw)
	n, err := r.uvarint()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		term, err := r.str()
		if err != nil {
			return err
		}
		df, err := r.uvarint()
		if err != nil {
			return err
		}
		pl := &PostingList{Postings: make([]Posting, 0, df)}
		prevIdx := 0
		for j := uint64(0); j < df; j++ {
			delta, err := r.uvarint()
			if err != nil {
				return err
			}
			prevIdx += int(delta)
			tf, err := r.uvarint()
			if err != nil {
				return err
			}
			numPos, err := r.uvarint()
			if err != nil {
				return err
			}
			positions := make([]int, numPos)
			prevPos := 0
			for k := uint64(0); k < numPos; k++ {
				d, err := r.uvarint()
				if err != nil {
					return err
				}
				prevPos += int(d)
				positions[k] = prevPos
			}
			pl.Postings = append(pl.Postings, Posting{
				DocID:     seg.docOrder[prevIdx],
				TF:        int(tf),
				Positions: positions,
			})
		}
		seg.terms[term] = pl
	}
	return nil
}

// varReader is a minimal cursor over a varint/length-prefixed byte slice,
// used by the segment decoder (wal.go's getString/ReadUvarint assume an
// io.Reader; this avoids wrapping each section in a bytes.Reader twice).
type varReader struct {
	data []byte
	pos  int
}

func newVarReader(data []byte) *varReader { return &varReader{data: data} }

func (r *varReader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("segment: bad varint")
	}
	r.pos += n
	return v, nil
}

func (r *varReader) str() (string, error) {
	if r.pos+4 > len(r.data) {
		return "", fmt.Errorf("segment: truncated string length")
	}
	n := binary.LittleEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	if r.pos+int(n) > len(r.data) {
		return "", fmt.Errorf("segment: truncated string body")
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *varReader) byte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("segment: truncated byte")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}
