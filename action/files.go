package action

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jacentio/dynamodb-actions/store"
)

// readJSONFile reads a file holding exactly one JSON value. Numbers are kept
// as json.Number.
func readJSONFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &FileError{Path: path, Err: errors.New("unexpected data after JSON value")}
	}
	return v, nil
}

// readItemFile reads a file holding one JSON object.
func readItemFile(path string) (store.Item, error) {
	v, err := readJSONFile(path)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &FileError{Path: path, Err: errors.New("file does not contain a JSON object")}
	}
	return obj, nil
}

// globFiles resolves newline-separated glob patterns to a sorted list of
// regular files. Patterns starting with '!' exclude matches of the patterns
// before them. Matching no file is an error.
func globFiles(patterns string) ([]string, error) {
	var matched []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(patterns, "\n") {
		pattern := strings.TrimSpace(line)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}

		if exclude, ok := strings.CutPrefix(pattern, "!"); ok {
			if !doublestar.ValidatePathPattern(exclude) {
				return nil, &FileError{Pattern: pattern, Err: doublestar.ErrBadPattern}
			}
			matched = slices.DeleteFunc(matched, func(path string) bool {
				ok, _ := doublestar.PathMatch(exclude, path)
				if ok {
					delete(seen, path)
				}
				return ok
			})
			continue
		}

		paths, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, &FileError{Pattern: pattern, Err: err}
		}
		for _, path := range paths {
			if seen[path] {
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				return nil, &FileError{Path: path, Err: err}
			}
			if info.IsDir() {
				continue
			}
			seen[path] = true
			matched = append(matched, path)
		}
	}

	if len(matched) == 0 {
		return nil, &FileError{Pattern: patterns, Err: ErrNoFilesMatched}
	}
	slices.Sort(matched)
	return matched, nil
}
