package ioformats

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"pt-autofill/internal/models"
)

// Open returns stdin for "-" and the named file otherwise.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// ReadText reads a whole file (or stdin for "-"), e.g. a saved mediainfo
// report.
func ReadText(path string) (string, error) {
	f, err := Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadPayload reads a single publish JSON document.
func ReadPayload(path string) (models.Payload, error) {
	f, err := Open(path)
	if err != nil {
		return models.Payload{}, err
	}
	defer f.Close()
	return DecodePayload(f)
}

func DecodePayload(r io.Reader) (models.Payload, error) {
	var p models.Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return models.Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	if err := p.Validate(); err != nil {
		return models.Payload{}, err
	}
	return p, nil
}

// ReadPayloads reads NDJSON publish payloads, one per line. Blank lines are
// skipped; a malformed line fails the whole read with its line number.
func ReadPayloads(path string) ([]models.Payload, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []models.Payload
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var p models.Payload
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no payloads found in ndjson")
	}
	return out, nil
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
