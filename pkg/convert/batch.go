package convert

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DocxExtension is the file extension picked up when walking directories.
const DocxExtension = ".docx"

// DiscoverInputs expands the given paths into the list of documents to
// convert. Files are kept as given. Directories are walked recursively for
// .docx files, skipping Word lock files ("~$name.docx"). Paths that cannot be
// stat'ed are kept so that the conversion reports them.
func DiscoverInputs(paths []string) ([]string, error) {
	var inputs []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			inputs = append(inputs, path)
			continue
		}

		var found []string
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if !d.IsDir() && strings.EqualFold(filepath.Ext(name), DocxExtension) && !strings.HasPrefix(name, "~$") {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		inputs = append(inputs, found...)
	}
	return inputs, nil
}

// BatchStatus is the lifecycle state of a Batch.
type BatchStatus string

const (
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchFailed    BatchStatus = "failed"
	BatchCancelled BatchStatus = "cancelled"
)

// Failure records one input that could not be converted.
type Failure struct {
	Input string
	Err   error
}

// Batch tallies the outcome of converting several inputs in one run.
type Batch struct {
	total     int
	converted int
	empty     int
	failures  []Failure
	status    BatchStatus
	started   time.Time
	finished  time.Time
}

// NewBatch returns a running Batch expecting total inputs.
func NewBatch(total int) *Batch {
	return &Batch{total: total, status: BatchRunning, started: time.Now()}
}

// Done records a finished conversion. Results without utterances count as
// empty rather than converted.
func (b *Batch) Done(r *Result) {
	if r == nil || len(r.Utterances) == 0 {
		b.empty++
		return
	}
	b.converted++
}

// Fail records that input failed with err.
func (b *Batch) Fail(input string, err error) {
	b.failures = append(b.failures, Failure{Input: input, Err: err})
}

// Finish closes the batch as completed, or failed if any input failed.
func (b *Batch) Finish() {
	b.status = BatchCompleted
	if len(b.failures) > 0 {
		b.status = BatchFailed
	}
	b.finished = time.Now()
}

// Cancel closes the batch early.
func (b *Batch) Cancel() {
	b.status = BatchCancelled
	b.finished = time.Now()
}

// Snapshot copies the current tallies.
func (b *Batch) Snapshot() BatchSnapshot {
	end := b.finished
	if end.IsZero() {
		end = time.Now()
	}
	return BatchSnapshot{
		Total:     b.total,
		Converted: b.converted,
		Empty:     b.empty,
		Failures:  append([]Failure(nil), b.failures...),
		Status:    b.status,
		Elapsed:   end.Sub(b.started),
	}
}

// BatchSnapshot is a point-in-time copy of a Batch.
type BatchSnapshot struct {
	Total     int
	Converted int
	Empty     int
	Failures  []Failure
	Status    BatchStatus
	Elapsed   time.Duration
}

// Processed is the number of inputs with an outcome so far.
func (s BatchSnapshot) Processed() int {
	return s.Converted + s.Empty + len(s.Failures)
}

// OK reports whether the batch finished with no failures.
func (s BatchSnapshot) OK() bool {
	return s.Status == BatchCompleted
}
