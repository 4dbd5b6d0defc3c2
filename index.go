// Package blaze — the public Index handle (§6) and the write path (§3,
// §4.6, §5): add/delete/get/search/flush/merge over an on-disk directory
// of segments plus one mutable segment backed by a write log.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHAT IS AN INVERTED INDEX?
// ═══════════════════════════════════════════════════════════════════════════════
// An inverted index is like the index at the back of a book, but for search
// engines: instead of scanning every document for a word, each term maps
// directly to the list of documents (and positions) it occurs in.
// ═══════════════════════════════════════════════════════════════════════════════
package blaze

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// BM25Parameters holds the k1/b ranking constants (§4.9).
type BM25Parameters struct {
	K1 float64
	B  float64
}

// DefaultBM25Parameters returns the canonical Okapi BM25 constants.
func DefaultBM25Parameters() BM25Parameters { return BM25Parameters{K1: 1.5, B: 0.75} }

// Document is the content returned by Get: the original text and its
// post-tokenization token count.
type Document struct {
	Content string
	Length  int
}

// Result is one search hit: a document and its BM25 score, returned in
// descending score order (§6).
type Result struct {
	DocID    string
	Score    float64
	Document Document
}

// Index is the process-wide handle over one on-disk directory: an
// ordered set of immutable segments plus at most one mutable segment and
// its write log (§3). An Index instance is not safe for concurrent
// writers (§5) — the mutex below enforces that at the API boundary.
type Index struct {
	mu sync.Mutex

	dir      string
	opts     Options
	segPath  string // dir/segments
	logPath  string // dir/log/current.wal
	metaPath string // dir/meta.bin

	segments     []*Segment
	segmentFiles []string
	mutable      *Segment
	wal          *WriteLog
	idGen        *idGenerator
	nextSegNum   int

	log *slog.Logger
}

// Open creates or loads the index rooted at dir.
func Open(dir string, opts Options) (*Index, error) {
	opts, err := opts.validateAndFill()
	if err != nil {
		return nil, &IndexInitError{Cause: err}
	}

	segDir := filepath.Join(dir, "segments")
	logDir := filepath.Join(dir, "log")
	for _, d := range []string{dir, segDir, logDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, &IndexInitError{Cause: err}
		}
	}

	idx := &Index{
		dir:      dir,
		opts:     opts,
		segPath:  segDir,
		logPath:  filepath.Join(logDir, "current.wal"),
		metaPath: filepath.Join(dir, "meta.bin"),
		idGen:    newIDGenerator(),
		log:      opts.Logger,
	}

	meta, existed, err := readMetaFile(idx.metaPath)
	if err != nil {
		return nil, &IndexInitError{Cause: err}
	}
	if existed {
		idx.opts.Compression = meta.Compression
		idx.opts.BM25 = meta.BM25
		for _, name := range meta.Segments {
			data, err := os.ReadFile(filepath.Join(segDir, name))
			if err != nil {
				return nil, &IndexInitError{Cause: err}
			}
			seg, err := DecodeSegment(data)
			if err != nil {
				return nil, &IndexInitError{Cause: err}
			}
			idx.segments = append(idx.segments, seg)
			idx.segmentFiles = append(idx.segmentFiles, name)
		}
		idx.nextSegNum = len(meta.Segments)
	}

	wal, err := OpenWriteLog(idx.logPath, idx.opts.Compression)
	if err != nil {
		return nil, &IndexInitError{Cause: err}
	}
	idx.wal = wal

	idx.mutable = NewSegment()
	replayErr := wal.Replay(func(add walAddRecord, del *walDeleteRecord) {
		if del != nil {
			idx.applyDelete(del.DocID)
			return
		}
		for _, seg := range idx.segments {
			if _, ok := seg.docIndex[add.DocID]; ok {
				return
			}
		}
		idx.mutable.AddDoc(add.DocID, add.Text, add.Length, add.Postings)
	})
	if replayErr != nil {
		_ = wal.Close()
		return nil, &IndexInitError{Cause: replayErr}
	}

	idx.log.Debug("index opened", "dir", dir, "segments", len(idx.segments))
	return idx, nil
}

// applyDelete tombstones docID in whichever segment currently holds it
// live — the mutable segment or any loaded immutable one.
func (idx *Index) applyDelete(docID string) bool {
	if idx.mutable.DeleteDoc(docID) {
		return true
	}
	for _, seg := range idx.segments {
		if seg.DeleteDoc(docID) {
			return true
		}
	}
	return false
}

// Add indexes text and returns its newly assigned document id.
func (idx *Index) Add(text string) (string, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	docID, err := idx.idGen.Next()
	if err != nil {
		return "", &IndexAddError{Cause: err}
	}
	n, groups, _ := TokenizeGroup(text)

	// Log append precedes the in-memory insertion so that crash recovery
	// is idempotent: replaying a log whose last record never reached the
	// in-memory segment just reapplies it (§7).
	if err := idx.wal.AppendAdd(walAddRecord{DocID: docID, Text: text, Length: n, Postings: groups}); err != nil {
		return "", &IndexAddError{Cause: err}
	}
	idx.mutable.AddDoc(docID, text, n, groups)

	if idx.opts.FlushEveryN > 0 && idx.mutable.LiveCount() >= idx.opts.FlushEveryN {
		if err := idx.flushLocked(); err != nil {
			return docID, &IndexAddError{Cause: err}
		}
	}
	return docID, nil
}

// Delete tombstones docID, returning whether a live document existed.
func (idx *Index) Delete(docID string) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !validDocID(docID) {
		return false, &IndexDeleteError{Cause: fmt.Errorf("malformed document id %q", docID)}
	}
	if err := idx.wal.AppendDelete(walDeleteRecord{DocID: docID}); err != nil {
		return false, &IndexDeleteError{Cause: err}
	}
	return idx.applyDelete(docID), nil
}

// Get returns the content and length of a live document.
func (idx *Index) Get(docID string) (Document, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !validDocID(docID) {
		return Document{}, &IndexGetError{Cause: fmt.Errorf("malformed document id %q", docID)}
	}
	return idx.getLocked(docID)
}

// Flush seals the mutable segment into an immutable one (§4.6).
func (idx *Index) Flush() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.flushLocked()
}

func (idx *Index) flushLocked() error {
	if len(idx.mutable.docOrder) == 0 {
		return nil
	}
	name := fmt.Sprintf("%08d.seg", idx.nextSegNum)
	data, err := EncodeSegment(idx.mutable, idx.opts.Compression)
	if err != nil {
		return &IndexFlushError{Cause: err}
	}
	tmp := filepath.Join(idx.segPath, name+".tmp")
	final := filepath.Join(idx.segPath, name)
	if err := writeFileSync(tmp, data); err != nil {
		return &IndexFlushError{Cause: err}
	}
	if err := os.Rename(tmp, final); err != nil {
		return &IndexFlushError{Cause: err}
	}

	idx.segments = append(idx.segments, idx.mutable)
	idx.segmentFiles = append(idx.segmentFiles, name)
	idx.nextSegNum++

	if err := idx.writeMetaLocked(); err != nil {
		return &IndexFlushError{Cause: err}
	}
	// The new segment is durable on disk and meta.bin references it
	// before the log is truncated, so a crash between these two steps
	// still replays correctly on the next load (§5).
	if err := idx.wal.Truncate(); err != nil {
		return &IndexFlushError{Cause: err}
	}
	// Tombstones held by older immutable segments are not part of the
	// segment just written, so their delete records are carried over into
	// the emptied log until a merge drops those documents.
	for _, seg := range idx.segments[:len(idx.segments)-1] {
		for i, docID := range seg.docOrder {
			if seg.live.Contains(uint32(i)) {
				continue
			}
			if err := idx.wal.AppendDelete(walDeleteRecord{DocID: docID}); err != nil {
				return &IndexFlushError{Cause: err}
			}
		}
	}
	idx.mutable = NewSegment()
	idx.log.Debug("flush complete", "segment", name)
	return nil
}

func (idx *Index) writeMetaLocked() error {
	m := metaFile{Segments: idx.segmentFiles, Compression: idx.opts.Compression, BM25: idx.opts.BM25}
	tmp := idx.metaPath + ".tmp"
	if err := writeFileSync(tmp, encodeMeta(m)); err != nil {
		return err
	}
	return os.Rename(tmp, idx.metaPath)
}

// Merge compacts all immutable segments into one, dropping tombstones
// (§4.10).
func (idx *Index) Merge() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(idx.segments) == 0 {
		return nil
	}
	merged := MergeSegments(idx.segments)
	name := fmt.Sprintf("%08d.seg", idx.nextSegNum)
	data, err := EncodeSegment(merged, idx.opts.Compression)
	if err != nil {
		return &IndexFlushError{Cause: err}
	}
	tmp := filepath.Join(idx.segPath, name+".tmp")
	final := filepath.Join(idx.segPath, name)
	if err := writeFileSync(tmp, data); err != nil {
		return &IndexFlushError{Cause: err}
	}
	if err := os.Rename(tmp, final); err != nil {
		return &IndexFlushError{Cause: err}
	}

	oldFiles := idx.segmentFiles
	idx.segments = []*Segment{merged}
	idx.segmentFiles = []string{name}
	idx.nextSegNum++
	if err := idx.writeMetaLocked(); err != nil {
		return &IndexFlushError{Cause: err}
	}
	for _, f := range oldFiles {
		_ = os.Remove(filepath.Join(idx.segPath, f))
	}
	idx.log.Debug("merge complete", "inputs", len(oldFiles), "output", name)
	return nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Close flushes the mutable segment and releases the write log handle.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.flushLocked(); err != nil {
		return err
	}
	return idx.wal.Close()
}

// Session is a scoped acquisition that guarantees a flush on exit, even
// on error — mirroring the façade's session() contextmanager.
type Session struct {
	idx *Index
}

// Session returns a scope whose Close always flushes.
func (idx *Index) Session() *Session { return &Session{idx: idx} }

// Close flushes the index, wrapping any failure as IndexSessionError.
func (s *Session) Close() error {
	if err := s.idx.Flush(); err != nil {
		return &IndexSessionError{Cause: err}
	}
	return nil
}

// ── query-time aggregates across segments ─────────────────────────────

func (idx *Index) allSegments() []*Segment {
	all := make([]*Segment, 0, len(idx.segments)+1)
	all = append(all, idx.segments...)
	all = append(all, idx.mutable)
	return all
}

func (idx *Index) globalLiveCount() int {
	n := 0
	for _, s := range idx.allSegments() {
		n += s.LiveCount()
	}
	return n
}

func (idx *Index) globalAvgDocLen() float64 {
	n := idx.globalLiveCount()
	if n == 0 {
		return 1
	}
	var total int64
	for _, s := range idx.allSegments() {
		total += s.TotalTokens()
	}
	return float64(total) / float64(n)
}

func (idx *Index) globalDF(term string) int {
	n := 0
	for _, s := range idx.allSegments() {
		n += s.DF(term)
	}
	return n
}

func (idx *Index) docLength(docID string) int {
	for _, s := range idx.allSegments() {
		if e, ok := s.Get(docID); ok {
			return e.Length
		}
	}
	return 0
}

// termPostings concatenates live postings for term across segments in
// order (oldest to newest, mutable last). Doc ids are monotonic ULIDs
// assigned once per document, so concatenation preserves global doc_id
// order without re-sorting.
func (idx *Index) termPostings(term string) *PostingList {
	pl := &PostingList{}
	for _, s := range idx.allSegments() {
		pl.Postings = append(pl.Postings, s.livePostings(term)...)
	}
	return pl
}

// fuzzyCacheKey identifies one (distance, stemmed term) expansion
// request, memoized per Search call so a term repeated across query
// clauses only walks the trie once.
type fuzzyCacheKey struct {
	distance int
	term     string
}

// allVariants unions each segment's trie expansion for (d, q), keeping
// the minimum distance seen for a term that appears in more than one
// segment's dictionary. cache memoizes this per call-scoped Search
// invocation (§SUPPLEMENTED FEATURES: fuzzy expansion caching).
func (idx *Index) allVariants(cache map[fuzzyCacheKey][]FuzzyMatch, d int, q string) []FuzzyMatch {
	key := fuzzyCacheKey{distance: d, term: q}
	if v, ok := cache[key]; ok {
		return v
	}
	best := make(map[string]int)
	for _, s := range idx.allSegments() {
		for _, m := range s.trie.Search(d, q) {
			if cur, ok := best[m.Term]; !ok || m.Distance < cur {
				best[m.Term] = m.Distance
			}
		}
	}
	out := make([]FuzzyMatch, 0, len(best))
	for t, dist := range best {
		out = append(out, FuzzyMatch{Term: t, Distance: dist})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	cache[key] = out
	return out
}

// Search parses query, expands each term through the fuzzy trie, drives
// the intersection of per-term postings, and scores candidates with BM25
// (§4.3–§4.9). topK == 0 returns every match, sorted by score descending.
func (idx *Index) Search(query string, topK int) ([]Result, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	parsed, err := ParseQuery(query)
	if err != nil {
		var sqe *SearchQueryError
		if errors.As(err, &sqe) {
			return nil, err
		}
		return nil, &SearchQueryError{Cause: err}
	}

	fuzzyCache := make(map[fuzzyCacheKey][]FuzzyMatch)
	bundles := make([]*tokenBundle, len(parsed.Terms))
	for i, qt := range parsed.Terms {
		stem := stemToken(qt.Word)
		variants := idx.allVariants(fuzzyCache, qt.Fuzzy, stem)
		bundles[i] = newTokenBundle(variants, idx.termPostings)
	}

	candidates := Intersect(bundles)
	n := idx.globalLiveCount()
	avgDocLen := idx.globalAvgDocLen()
	top := newTopKHeap(topK)

	for _, c := range candidates {
		docLen := idx.docLength(c.DocID)
		if minScore, full := top.MinIfFull(); full {
			ub := 0.0
			for _, hits := range c.Hits {
				ub += upperBoundContribution(hits, idx.opts.BM25, docLen, avgDocLen, idx.globalDF, n)
			}
			if ub <= minScore {
				continue
			}
		}
		windows := MatchWindows(c.Hits, parsed.Slop)
		if len(windows) == 0 {
			continue
		}
		score := documentScore(windows, idx.opts.BM25, docLen, avgDocLen, idx.globalDF, n)
		if score <= 0 {
			continue
		}
		top.Offer(c.DocID, score)
	}

	scored := top.Results()
	results := make([]Result, 0, len(scored))
	for _, sc := range scored {
		doc, err := idx.getLocked(sc.docID)
		if err != nil {
			continue
		}
		results = append(results, Result{DocID: sc.docID, Score: sc.score, Document: doc})
	}
	return results, nil
}

func (idx *Index) getLocked(docID string) (Document, error) {
	if e, ok := idx.mutable.Get(docID); ok {
		return Document{Content: e.Text, Length: e.Length}, nil
	}
	for _, seg := range idx.segments {
		if e, ok := seg.Get(docID); ok {
			return Document{Content: e.Text, Length: e.Length}, nil
		}
	}
	return Document{}, &IndexGetError{Cause: fmt.Errorf("document %q not found", docID)}
}
