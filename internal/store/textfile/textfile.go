// Package textfile reads and writes the pipe-delimited events file, one event per line.
package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/geocoder89/eventdesk/internal/domain/event"
	"github.com/google/uuid"
)

const FilePermissions = 0644

// SkippedLine is a line that did not decode to an event. Number is 1-based.
type SkippedLine struct {
	Number int
	Err    error
}

type Result struct {
	Events  []*event.Event
	Skipped []SkippedLine
}

// Write encodes events in the given order, each line terminated by \n.
func Write(w io.Writer, events []*event.Event) error {
	bw := bufio.NewWriter(w)

	for _, e := range events {
		if _, err := bw.WriteString(e.MarshalLine() + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Read decodes every line of r. Malformed lines land in Result.Skipped; only a
// read failure is returned as an error, and then the partial result is dropped.
// Lines have no length limit.
func Read(r io.Reader) (Result, error) {
	var res Result

	br := bufio.NewReader(r)

	for n := 1; ; n++ {
		line, err := br.ReadString('\n')

		if err != nil && !errors.Is(err, io.EOF) {
			return Result{}, fmt.Errorf("read line %d: %w", n, err)
		}

		// a trailing newline does not start another line
		if line == "" && err != nil {
			break
		}

		e, perr := event.ParseLine(strings.TrimRight(line, "\r\n"))

		if perr != nil {
			res.Skipped = append(res.Skipped, SkippedLine{Number: n, Err: perr})
		} else {
			res.Events = append(res.Events, e)
		}

		if err != nil {
			break
		}
	}

	return res, nil
}

// Load opens path and reads it. A missing file yields an error wrapping fs.ErrNotExist.
func Load(path string) (res Result, err error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			res, err = Result{}, cerr
		}
	}()

	return Read(file)
}

// Save replaces path with the encoded events. It writes a temporary file next
// to the target and renames it over it, so readers see either the old or the
// new content, never a truncated file. A symlinked path keeps its link: the
// file it points to is replaced. An existing file keeps its permissions.
func Save(path string, events []*event.Event) (err error) {
	target := path
	if resolved, rerr := filepath.EvalSymlinks(path); rerr == nil {
		target = resolved
	}

	mode := os.FileMode(FilePermissions)
	if fi, serr := os.Stat(target); serr == nil {
		mode = fi.Mode().Perm()
	}

	dir := filepath.Dir(target)
	tmpPath := filepath.Join(dir, "."+filepath.Base(target)+"."+uuid.NewString()+".tmp")

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			// already closed on most paths; the remove is what matters
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	// OpenFile is subject to the umask
	if err = tmp.Chmod(mode); err != nil {
		return err
	}

	if err = Write(tmp, events); err != nil {
		return err
	}

	if err = tmp.Sync(); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	if err = os.Rename(tmpPath, target); err != nil {
		return err
	}

	return nil
}

// IsNotExist reports whether err came from a missing events file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
