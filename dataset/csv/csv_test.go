package csv

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name     string
		head     string
		complete bool
		want     rune
	}{
		{"comma", "a,b,c\n1,2,3\n", true, ','},
		{"semicolon", "a;b;c\n1,5;2;3\n", true, ';'},
		{"tab", "a\tb\n1\t2\n", true, '\t'},
		{"pipe", "a|b\n1|2\n", true, '|'},
		{"quoted delimiters ignored", "name;city\n\"Doe, J\";Paris\n", true, ';'},
		{"truncated last line ignored", "a;b\n1;2\n3", false, ';'},
		{"single column", "a\n1\n", true, ','},
		{"empty", "", true, ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff([]byte(tt.head), tt.complete))
		})
	}
}

func TestReadTable(t *testing.T) {
	content := "\xef\xbb\xbfoutlook; temp ;play\r\nSunny;30;no\r\nRain;;yes\r\n\r\nOvercast\r\n"
	table, err := ReadTable(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, []string{"outlook", "temp", "play"}, table.Headers)
	assert.Equal(t, [][]string{
		{"Sunny", "30", "no"},
		{"Rain", "", "yes"},
		{"Overcast", "", ""},
	}, table.Rows)
}

func TestReadTableErrors(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	assert.Error(t, err)
	_, err = ReadTable(strings.NewReader("a,a\n1,2\n"))
	assert.Error(t, err)
}

func TestReadTableFromFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.csv")
	require.NoError(t, os.WriteFile(path, []byte("temp,play\n30,no\n"), 0o600))
	table, err := ReadTableFromFilePath(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = ReadTableFromFilePath(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteTable(t *testing.T) {
	table, err := dataset.NewTable([]string{"outlook", "play"}, [][]string{{"Sunny, warm", "no"}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table))
	assert.Equal(t, "outlook,play\n\"Sunny, warm\",no\n", buf.String())

	read, err := ReadTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, table, read)
}
