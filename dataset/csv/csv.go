/*
Package csv reads and writes dataset.Table values as CSV, guessing the
delimiter of the input.
*/
package csv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/sapling/dataset"
)

const sniffSize = 1024

var utf8BOM = []byte("\xef\xbb\xbf")

// Delimiters holds the delimiters ReadTable is able to detect, by preference
var Delimiters = []rune{',', ';', '\t', '|'}

/*
ReadTable takes an io.Reader for a CSV stream and returns the table read
from it or an error.

The first row of the CSV content is the header. The delimiter is sniffed from
the first 1024 bytes of the stream among Delimiters: the one appearing the
same non-zero number of times on every complete line wins, preferring the one
with more occurrences; ',' is used when none qualifies. Rows shorter than the
header are padded with empty cells.
*/
func ReadTable(reader io.Reader) (*dataset.Table, error) {
	br := bufio.NewReaderSize(reader, sniffSize)
	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("reading CSV: %v", err)
	}
	hasBOM := bytes.HasPrefix(head, utf8BOM)
	comma := Sniff(bytes.TrimPrefix(head, utf8BOM), err == io.EOF)
	if hasBOM {
		_, err = br.Discard(len(utf8BOM))
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %v", err)
		}
	}
	r := csv.NewReader(br)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("reading header: empty CSV content")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	rows := [][]string{}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %v", l, err)
		}
		if len(row) == 1 && row[0] == "" {
			continue
		}
		rows = append(rows, row)
	}
	return dataset.NewTable(header, rows)
}

/*
ReadTableFromFilePath takes a filepath string, opens the file to which it
points (os.Stdin if it is "") and uses ReadTable to return the table read
from it or an error.
*/
func ReadTableFromFilePath(filepath string) (*dataset.Table, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("opening CSV file: %v", err)
		}
		defer f.Close()
	}
	t, err := ReadTable(f)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return t, err
}

/*
Sniff takes the first bytes of a CSV stream and whether they are the whole
stream, and returns the delimiter guessed for it as described on ReadTable.
*/
func Sniff(head []byte, complete bool) rune {
	lines := strings.Split(strings.ReplaceAll(string(head), "\r\n", "\n"), "\n")
	if !complete && len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}
	nonEmpty := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	lines = nonEmpty
	if len(lines) == 0 {
		return ','
	}
	best, bestCount := ',', 0
	for _, d := range Delimiters {
		count := countOutsideQuotes(lines[0], d)
		if count == 0 {
			continue
		}
		consistent := true
		for _, l := range lines[1:] {
			if countOutsideQuotes(l, d) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best, bestCount = d, count
		}
	}
	if bestCount > 0 {
		return best
	}
	for _, d := range Delimiters {
		if count := countOutsideQuotes(lines[0], d); count > bestCount {
			best, bestCount = d, count
		}
	}
	return best
}

func countOutsideQuotes(line string, d rune) int {
	var count int
	var quoted bool
	for _, c := range line {
		switch {
		case c == '"':
			quoted = !quoted
		case c == d && !quoted:
			count++
		}
	}
	return count
}

/*
WriteTable takes an io.Writer and a table and writes the table onto the
writer as comma separated CSV, header first. It returns an error if
writing fails.
*/
func WriteTable(writer io.Writer, t *dataset.Table) error {
	w := csv.NewWriter(writer)
	err := w.Write(t.Headers)
	if err != nil {
		return fmt.Errorf("writing CSV header: %v", err)
	}
	for i, row := range t.Rows {
		err = w.Write(row)
		if err != nil {
			return fmt.Errorf("writing CSV row %d: %v", i+1, err)
		}
	}
	w.Flush()
	return w.Error()
}
