package corpusfs

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tagquery/internal/domain/tag"
)

// ReadProfile reads the tag file at base + ".txt", falling back to base + ".json".
// It returns a nil profile and no error when neither file exists.
func ReadProfile(base string) (*tag.Profile, error) {
	p, err := readText(base + ".txt")
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	p, err = readJSON(base + ".json")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return p, err
}

// readText parses lines of "tag score [category]". Lines that do not parse are ignored.
func readText(path string) (*tag.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := tag.NewProfileBuilder()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		score, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		cat := tag.General
		if len(fields) > 2 {
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				continue
			}
			cat = tag.Category(n)
		}
		b.Add(cat, fields[0], score)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b.Build(), nil
}

// readJSON parses {"<category>": {"<tag>": score}}.
func readJSON(path string) (*tag.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	b := tag.NewProfileBuilder()
	for catKey, tags := range raw {
		n, err := strconv.Atoi(catKey)
		if err != nil {
			return nil, fmt.Errorf("parse %s: invalid category %q", path, catKey)
		}
		for name, score := range tags {
			b.Add(tag.Category(n), name, score)
		}
	}
	return b.Build(), nil
}
