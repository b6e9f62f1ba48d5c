package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mailbox-locator/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "base.json", `[
		{"地址_norm": "中山路123號2樓", "箱號_int": 37},
		"not an object",
		{"地址": "民生街5號", "boxNo": "19"}
	]`)

	records, err := LoadFile(path)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "37", records[0].First(index.BoxNoAliases))
	assert.Equal(t, "民生街5號", records[1].First(index.AddrRawAliases))
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "base.yaml", `
- 地址_norm: 中山路123號2樓
  箱號_int: 37
- address: 太子路200號
  boxNo: "29"
`)

	records, err := LoadFile(path)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "37", records[0].First(index.BoxNoAliases))
	assert.Equal(t, "太子路200號", records[1].First(index.AddrNormAliases))
}

func TestLoadFile_NotArray(t *testing.T) {
	jsonPath := writeFile(t, "obj.json", `{"地址": "中山路1號"}`)
	_, err := LoadFile(jsonPath)
	assert.ErrorIs(t, err, ErrNotArray)
	assert.Contains(t, err.Error(), "is not an array")

	yamlPath := writeFile(t, "obj.yml", "address: 中山路1號\n")
	_, err = LoadFile(yamlPath)
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "base.csv", "a,b"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(writeFile(t, "broken.json", "[{"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotArray)
}

func TestEncodeJSON(t *testing.T) {
	data, err := EncodeJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = EncodeJSON([]index.RawRecord{{"id": "a"}})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": \"a\"\n  }\n]", string(data))

	back, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "a", back[0].First(index.IDAliases))
}

func TestXLSX_RoundTrip(t *testing.T) {
	records := []index.RawRecord{
		{"id": "r1", "地址_norm": "中山路123號2樓", "箱號_int": float64(37), "備註": "側門", "custom_field": "x"},
		{"id": "r2", "地址_norm": "民生街5號", "箱號_int": "A-12", "lane": nil},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, records))

	back, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, back, 2)

	assert.Equal(t, "r1", back[0]["id"])
	assert.Equal(t, "37", back[0]["箱號_int"])
	assert.Equal(t, "側門", back[0]["備註"])
	assert.Equal(t, "x", back[0]["custom_field"])
	assert.Equal(t, "A-12", back[1]["箱號_int"])
	assert.NotContains(t, back[1], "lane")
	assert.NotContains(t, back[1], "備註")
}

func TestLoadFile_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []index.RawRecord{{"地址": "太子路200號", "boxNo": "29"}}))
	path := writeFile(t, "base.xlsx", buf.String())

	records, err := LoadFile(path)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "29", records[0].First(index.BoxNoAliases))
}

func TestColumns(t *testing.T) {
	cols := Columns([]index.RawRecord{
		{"zeta": 1, "地址_norm": "a", "id": "1"},
		{"alpha": 2, "箱號_int": 3},
	})

	assert.Equal(t, []string{"id", "箱號_int", "地址_norm", "alpha", "zeta"}, cols)
}
