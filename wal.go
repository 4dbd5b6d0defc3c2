// Write log (§4.6): an append-only file of typed records behind the
// mutable segment. Record framing is literal per §6: 1-byte tag, 4-byte
// big-endian payload length, then the payload. The source calls the
// payload encoding "bincode"; no Go package in the example pack offers a
// Rust-bincode-compatible codec, so the payload is framed with
// encoding/binary the way the teacher's own serialization.go already
// frames its binary records — length-prefixed fields, no reflection.
// Payload compression is optional and chosen at Open time (Options.
// Compression), using github.com/golang/snappy.
package blaze

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
)

const (
	walTagAdd    byte = 1
	walTagDelete byte = 2
)

type walAddRecord struct {
	DocID    string
	Text     string
	Length   int
	Postings map[string][]int
}

type walDeleteRecord struct {
	DocID string
}

// WriteLog is the append-only log backing one mutable segment.
type WriteLog struct {
	path        string
	f           *os.File
	compression CompressionMode
}

// OpenWriteLog opens (creating if absent) the log file at path for
// appending, and for replay.
func OpenWriteLog(path string, compression CompressionMode) (*WriteLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &WriteLog{path: path, f: f, compression: compression}, nil
}

func (w *WriteLog) encodePayload(raw []byte) []byte {
	if w.compression == CompressionSnappy {
		return snappy.Encode(nil, raw)
	}
	return raw
}

func (w *WriteLog) decodePayload(data []byte) ([]byte, error) {
	if w.compression == CompressionSnappy {
		return snappy.Decode(nil, data)
	}
	return data, nil
}

func (w *WriteLog) appendRecord(tag byte, raw []byte) error {
	payload := w.encodePayload(raw)
	var header [5]byte
	header[0] = tag
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := w.f.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.f.Write(payload); err != nil {
		return err
	}
	return w.f.Sync()
}

// AppendAdd records a new document and its postings.
func (w *WriteLog) AppendAdd(rec walAddRecord) error {
	return w.appendRecord(walTagAdd, encodeAddRecord(rec))
}

// AppendDelete records a tombstone.
func (w *WriteLog) AppendDelete(rec walDeleteRecord) error {
	return w.appendRecord(walTagDelete, encodeDeleteRecord(rec))
}

// Replay reads every record in the log and passes each one to apply.
// An unrecognized tag aborts replay with ErrUnknownLogOperation — log
// corruption is fatal to load, never silently truncated (§4.6).
func (w *WriteLog) Replay(apply func(walAddRecord, *walDeleteRecord)) error {
	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r := bufio.NewReader(w.f)
	for {
		var header [5]byte
		_, err := io.ReadFull(r, header[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		tag := header[0]
		n := binary.BigEndian.Uint32(header[1:])
		raw := make([]byte, n)
		if _, err := io.ReadFull(r, raw); err != nil {
			return err
		}
		payload, err := w.decodePayload(raw)
		if err != nil {
			return err
		}
		switch tag {
		case walTagAdd:
			rec, err := decodeAddRecord(payload)
			if err != nil {
				return err
			}
			apply(rec, nil)
		case walTagDelete:
			rec, err := decodeDeleteRecord(payload)
			if err != nil {
				return err
			}
			apply(walAddRecord{}, &rec)
		default:
			return fmt.Errorf("wal tag %d: %w", tag, ErrUnknownLogOperation)
		}
	}
	if _, err := w.f.Seek(0, io.SeekEnd); err != nil {
		return err
	}
	return nil
}

// Truncate empties the log after a successful flush.
func (w *WriteLog) Truncate() error {
	if err := w.f.Truncate(0); err != nil {
		return err
	}
	_, err := w.f.Seek(0, io.SeekStart)
	return err
}

// Close closes the underlying file.
func (w *WriteLog) Close() error { return w.f.Close() }

// ── payload encoding ───────────────────────────────────────────────────

func putString(buf *bytes.Buffer, s string) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	buf.Write(n[:])
	buf.WriteString(s)
}

func getString(r *bytes.Reader) (string, error) {
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return "", err
	}
	length := binary.LittleEndian.Uint32(n[:])
	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func putUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func encodeAddRecord(rec walAddRecord) []byte {
	var buf bytes.Buffer
	putString(&buf, rec.DocID)
	putString(&buf, rec.Text)
	putUvarint(&buf, uint64(rec.Length))
	putUvarint(&buf, uint64(len(rec.Postings)))
	for term, positions := range rec.Postings {
		putString(&buf, term)
		putUvarint(&buf, uint64(len(positions)))
		prev := 0
		for _, p := range positions {
			putUvarint(&buf, uint64(p-prev))
			prev = p
		}
	}
	return buf.Bytes()
}

func decodeAddRecord(data []byte) (walAddRecord, error) {
	r := bytes.NewReader(data)
	docID, err := getString(r)
	if err != nil {
		return walAddRecord{}, err
	}
	text, err := getString(r)
	if err != nil {
		return walAddRecord{}, err
	}
	length, err := binary.ReadUvarint(r)
	if err != nil {
		return walAddRecord{}, err
	}
	numTerms, err := binary.ReadUvarint(r)
	if err != nil {
		return walAddRecord{}, err
	}
	postings := make(map[string][]int, numTerms)
	for i := uint64(0); i < numTerms; i++ {
		term, err := getString(r)
		if err != nil {
			return walAddRecord{}, err
		}
		numPos, err := binary.ReadUvarint(r)
		if err != nil {
			return walAddRecord{}, err
		}
		positions := make([]int, numPos)
		prev := 0
		for j := uint64(0); j < numPos; j++ {
			delta, err := binary.ReadUvarint(r)
			if err != nil {
				return walAddRecord{}, err
			}
			prev += int(delta)
			positions[j] = prev
		}
		postings[term] = positions
	}
	return walAddRecord{DocID: docID, Text: text, Length: int(length), Postings: postings}, nil
}

func encodeDeleteRecord(rec walDeleteRecord) []byte {
	var buf bytes.Buffer
	putString(&buf, rec.DocID)
	return buf.Bytes()
}

func decodeDeleteRecord(data []byte) (walDeleteRecord, error) {
	r := bytes.NewReader(data)
	docID, err := getString(r)
	if err != nil {
		return walDeleteRecord{}, err
	}
	return walDeleteRecord{DocID: docID}, nil
}
