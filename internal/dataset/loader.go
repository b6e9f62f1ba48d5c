// Package dataset đọc/ghi mảng record thô ở dạng JSON, YAML và XLSX
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mailbox-locator/internal/index"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotArray dữ liệu gốc không phải mảng
	ErrNotArray = errors.New("dataset is not an array")
	// ErrUnsupportedFormat phần mở rộng file không hỗ trợ
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// LoadFile đọc dataset theo phần mở rộng: .json, .yaml/.yml, .xlsx
func LoadFile(path string) ([]index.RawRecord, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".xlsx" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("lỗi mở dataset %s: %w", path, err)
		}
		defer f.Close()

		records, err := ReadXLSX(f)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", path, err)
		}
		return records, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc dataset %s: %w", path, err)
	}

	var records []index.RawRecord
	switch ext {
	case ".json":
		records, err = DecodeJSON(data)
	case ".yaml", ".yml":
		records, err = DecodeYAML(data)
	default:
		return nil, fmt.Errorf("dataset %s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return records, nil
}

// DecodeJSON parse mảng JSON các object
func DecodeJSON(data []byte) ([]index.RawRecord, error) {
	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("lỗi parse JSON: %w", err)
	}
	return fromArray(root)
}

// DecodeYAML parse sequence YAML các mapping
func DecodeYAML(data []byte) ([]index.RawRecord, error) {
	var root interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("lỗi parse YAML: %w", err)
	}
	return fromArray(root)
}

// EncodeJSON xuất mảng record dạng JSON có thụt lề
func EncodeJSON(records []index.RawRecord) ([]byte, error) {
	if records == nil {
		records = []index.RawRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("lỗi marshal JSON: %w", err)
	}
	return data, nil
}

// fromArray phần tử không phải object bị bỏ qua
func fromArray(root interface{}) ([]index.RawRecord, error) {
	items, ok := root.([]interface{})
	if !ok {
		return nil, ErrNotArray
	}

	records := make([]index.RawRecord, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			records = append(records, index.RawRecord(obj))
		}
	}
	return records, nil
}
