// Package output decodes media returned by a completed job and writes it to
// disk.
package output

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/podrun/internal/console"
)

// Media item type tags.
const (
	TypeBase64 = "base64"
	TypeS3URL  = "s3_url"
)

// ErrNotObject is returned when the (unwrapped) document is not a JSON object.
var ErrNotObject = errors.New("extracted content is not a dictionary")

// MediaItem is one entry of the images or videos list.
type MediaItem struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Data     string `json:"data"`
}

// Summary counts what Save did with each item.
type Summary struct {
	Saved      []string
	References []string
	Skipped    int
	Failed     int
}

type kind struct {
	key       string // list key in the output object
	label     string // singular noun used in messages
	extension string // extension for the fallback filename
}

var kinds = []kind{
	{key: "images", label: "image", extension: ".png"},
	{key: "videos", label: "video", extension: ".mp4"},
}

// Saver writes decoded media into Dir.
type Saver struct {
	// Dir receives the files; empty means the current working directory.
	Dir    string
	Report console.Reporter
}

// NewSaver returns a Saver writing to dir.
func NewSaver(dir string, report console.Reporter) *Saver {
	if report == nil {
		report = console.Discard
	}
	return &Saver{Dir: dir, Report: report}
}

// Save walks the images and videos lists of doc. doc may be a full status
// record, in which case its output field is used. Failures of individual items
// are reported and counted but never stop the walk.
func (s *Saver) Save(doc json.RawMessage) (Summary, error) {
	report := s.Report
	if report == nil {
		report = console.Discard
	}

	obj, err := unwrap(doc)
	if err != nil {
		report.Errorf("Error: %v.", err)
		return Summary{}, err
	}

	dir, err := s.outputDir()
	if err != nil {
		report.Errorf("Error: %v", err)
		return Summary{}, err
	}

	var summary Summary
	for _, k := range kinds {
		s.saveList(dir, k, obj[k.key], &summary, report)
	}
	return summary, nil
}

func (s *Saver) saveList(dir string, k kind, raw json.RawMessage, summary *Summary, report console.Reporter) {
	var items []json.RawMessage
	if isNull(raw) {
		report.Infof("No '%s' found in the output.", k.key)
		return
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		report.Errorf("Error reading %s: expected a list", k.key)
		summary.Failed++
		return
	}
	if len(items) == 0 {
		report.Infof("No '%s' found in the output.", k.key)
		return
	}

	report.Infof("Found %d %s(s).", len(items), k.label)
	for idx, rawItem := range items {
		if err := s.saveItem(dir, k, idx, rawItem, summary, report); err != nil {
			report.Errorf("Error processing %s %d: %v", k.label, idx, err)
			summary.Failed++
		}
	}
}

func (s *Saver) saveItem(dir string, k kind, idx int, raw json.RawMessage, summary *Summary, report console.Reporter) error {
	var item MediaItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}
	filename := item.Filename
	if strings.TrimSpace(filename) == "" {
		filename = fmt.Sprintf("output_%d%s", idx, k.extension)
	}

	switch {
	case item.Type == TypeBase64 && item.Data != "":
		name, err := safeName(filename)
		if err != nil {
			return err
		}
		report.Infof("Decoding and saving %s...", name)
		data, err := decodeData(item.Data)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		report.Successf("Saved to %s", path)
		summary.Saved = append(summary.Saved, path)
	case item.Type == TypeS3URL:
		report.Infof("%s %s is an S3 URL: %s", capitalize(k.label), filename, item.Data)
		summary.References = append(summary.References, item.Data)
	default:
		report.Warnf("Skipping %s %s: unknown type or no data", k.label, filename)
		summary.Skipped++
	}
	return nil
}

func (s *Saver) outputDir() (string, error) {
	if strings.TrimSpace(s.Dir) != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
		return s.Dir, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working dir: %w", err)
	}
	return dir, nil
}

// unwrap returns the object holding the media lists.
func unwrap(doc json.RawMessage) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(doc, &obj); err != nil || obj == nil {
		return nil, ErrNotObject
	}
	inner, ok := obj["output"]
	if !ok {
		return obj, nil
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(inner, &out); err != nil || out == nil {
		return nil, ErrNotObject
	}
	return out, nil
}

// decodeData accepts plain or data-URI base64.
func decodeData(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		if comma := strings.IndexByte(data, ','); comma >= 0 {
			data = data[comma+1:]
		}
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return decoded, nil
}

// safeName keeps only the final path element so items cannot escape the
// output directory.
func safeName(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(strings.ReplaceAll(filename, "\\", "/")))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return name, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
