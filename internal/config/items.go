package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadItems reads one label per line. Blank lines and lines starting with '#'
// are skipped; surrounding whitespace is trimmed.
func LoadItems(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open items: %w", err)
	}
	defer f.Close()

	items, err := ReadItems(f)
	if err != nil {
		return nil, fmt.Errorf("read items %s: %w", path, err)
	}
	return items, nil
}

// ReadItems parses the items format from r.
func ReadItems(r io.Reader) ([]string, error) {
	var items []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Items collects labels from an items file, when path is set, followed by
// extra labels given inline.
func Items(path string, extra []string) ([]string, error) {
	var items []string
	if path != "" {
		var err error
		if items, err = LoadItems(path); err != nil {
			return nil, err
		}
	}
	for _, e := range extra {
		if e = strings.TrimSpace(e); e != "" {
			items = append(items, e)
		}
	}
	return items, nil
}
