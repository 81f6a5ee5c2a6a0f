package lookup

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"span-mapper/internal/logger"
)

// ErrMalformedLine is returned for a non-blank, non-comment line without a
// tab separator.
var ErrMalformedLine = errors.New("malformed dictionary line")

// Separator splits a dictionary line into key and value.
const Separator = "\t"

// Load reads a dictionary in the line-oriented "key<TAB>value" format.
// Blank lines and lines starting with '#' are skipped. Keys and values are
// trimmed. When a key repeats, the last value wins.
func Load(r io.Reader) (*Dictionary, error) {
	entries := make(map[string]string)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++

		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, Separator)
		if !ok {
			return nil, errors.Wrapf(ErrMalformedLine, "line %d: no tab separator", lineNo)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errors.Wrapf(ErrMalformedLine, "line %d: empty key", lineNo)
		}

		if prev, dup := entries[key]; dup {
			logger.Debugw("Dictionary key redefined",
				"key", key,
				"line", lineNo,
				"previous", prev)
		}

		entries[key] = strings.TrimSpace(value)
	}

	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read dictionary")
	}

	return &Dictionary{entries: entries}, nil
}

// LoadFile loads a dictionary file.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dictionary %s", path)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "dictionary %s", path)
	}

	logger.Infow("Loaded dictionary",
		"file", path,
		"entries", d.Len())

	return d, nil
}
