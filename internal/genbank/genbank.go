package genbank

// Package genbank contains a conservative parser for GenBank flat files.
// It reads the handful of header keywords this project needs, the feature
// table, and the ORIGIN sequence block; everything else is skipped.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Feature is one entry of a record's feature table.
type Feature struct {
	Type       string
	Start      int // 0-based, minimum coordinate of the location
	End        int // exclusive, maximum coordinate of the location
	Location   string
	Qualifiers map[string][]string
}

// First returns the first value recorded for the qualifier key.
func (f Feature) First(key string) (string, bool) {
	vs := f.Qualifiers[key]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Record represents a single GenBank record.
type Record struct {
	Name       string // LOCUS name
	ID         string // VERSION accession, else ACCESSION, else Name
	Definition string
	Sequence   string
	Features   []Feature
}

// ParseFile opens path and parses all records in it.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

type section int

const (
	secHeader section = iota
	secFeatures
	secSequence
)

// Parse reads zero or more GenBank records from r. A file with no LOCUS
// line yields an empty slice and no error; malformed feature locations and
// truncated records are reported with their line number.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []Record

	var (
		inRecord    bool
		sec         section
		rec         Record
		accession   string
		version     string
		lastKeyword string

		feat    *Feature
		curQual string
		inQuote bool
		seq     strings.Builder
	)

	flushFeature := func(line int) error {
		if feat == nil {
			return nil
		}
		if inQuote {
			return fmt.Errorf("genbank: line %d: unterminated qualifier value in %s feature", line, feat.Type)
		}
		start, end, err := locationBounds(feat.Location)
		if err != nil {
			return fmt.Errorf("genbank: line %d: %s feature: %w", line, feat.Type, err)
		}
		feat.Start = start
		feat.End = end
		rec.Features = append(rec.Features, *feat)
		feat = nil
		curQual = ""
		return nil
	}

	flushRecord := func() {
		rec.ID = rec.Name
		if accession != "" {
			rec.ID = accession
		}
		if version != "" {
			rec.ID = version
		}
		rec.Sequence = seq.String()
		records = append(records, rec)

		rec = Record{}
		accession = ""
		version = ""
		lastKeyword = ""
		seq.Reset()
		inRecord = false
		sec = secHeader
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if !inRecord {
			if strings.HasPrefix(line, "LOCUS") {
				inRecord = true
				sec = secHeader
				fields := strings.Fields(line)
				if len(fields) > 1 {
					rec.Name = fields[1]
				}
			}
			continue
		}

		if strings.HasPrefix(line, "//") {
			if err := flushFeature(lineNo); err != nil {
				return nil, err
			}
			flushRecord()
			continue
		}

		switch sec {
		case secHeader:
			switch {
			case strings.HasPrefix(line, "FEATURES"):
				sec = secFeatures
			case strings.HasPrefix(line, "ORIGIN"):
				sec = secSequence
			case strings.HasPrefix(line, "DEFINITION"):
				rec.Definition = strings.TrimSpace(line[len("DEFINITION"):])
				lastKeyword = "DEFINITION"
			case strings.HasPrefix(line, "ACCESSION"):
				fields := strings.Fields(line)
				if len(fields) > 1 {
					accession = fields[1]
				}
				lastKeyword = "ACCESSION"
			case strings.HasPrefix(line, "VERSION"):
				fields := strings.Fields(line)
				if len(fields) > 1 {
					version = fields[1]
				}
				lastKeyword = "VERSION"
			case strings.HasPrefix(line, "            "):
				// keyword continuation (12-space indent)
				if lastKeyword == "DEFINITION" {
					rec.Definition += " " + strings.TrimSpace(line)
				}
			default:
				lastKeyword = ""
			}

		case secFeatures:
			if strings.HasPrefix(line, "ORIGIN") {
				if err := flushFeature(lineNo); err != nil {
					return nil, err
				}
				sec = secSequence
				continue
			}
			if len(line) > 5 && line[0] == ' ' && strings.HasPrefix(line, "     ") && line[5] != ' ' {
				// new feature key at column 5
				if err := flushFeature(lineNo); err != nil {
					return nil, err
				}
				fields := strings.Fields(line)
				f := Feature{Type: fields[0], Qualifiers: make(map[string][]string)}
				if len(fields) > 1 {
					f.Location = strings.Join(fields[1:], "")
				}
				feat = &f
				inQuote = false
				continue
			}
			if feat == nil {
				continue
			}
			if !strings.HasPrefix(line, "                     ") {
				// keyword line (BASE COUNT, CONTIG): the feature table is done
				if err := flushFeature(lineNo); err != nil {
					return nil, err
				}
				continue
			}
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if inQuote {
				closed := strings.HasSuffix(trimmed, `"`)
				if closed {
					trimmed = strings.TrimSuffix(trimmed, `"`)
				}
				appendQualValue(feat, curQual, trimmed)
				inQuote = !closed
				continue
			}
			if strings.HasPrefix(trimmed, "/") {
				name, value, hasValue := strings.Cut(trimmed[1:], "=")
				curQual = name
				if !hasValue {
					feat.Qualifiers[name] = append(feat.Qualifiers[name], "")
					continue
				}
				if strings.HasPrefix(value, `"`) {
					value = value[1:]
					if strings.HasSuffix(value, `"`) && value != "" {
						value = strings.TrimSuffix(value, `"`)
					} else {
						inQuote = true
					}
				}
				feat.Qualifiers[name] = append(feat.Qualifiers[name], value)
				continue
			}
			if curQual == "" {
				// location continued onto the next line
				feat.Location += trimmed
			}

		case secSequence:
			for _, c := range line {
				if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
					seq.WriteRune(c)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("genbank: read: %w", err)
	}
	if inRecord {
		return nil, fmt.Errorf("genbank: line %d: record %q not terminated by //", lineNo, rec.Name)
	}
	return records, nil
}

// appendQualValue extends the last value recorded for key with a
// continuation line. Translation strings concatenate without separators;
// everything else joins with a single space.
func appendQualValue(f *Feature, key, cont string) {
	vs := f.Qualifiers[key]
	if len(vs) == 0 {
		f.Qualifiers[key] = []string{cont}
		return
	}
	sep := " "
	if key == "translation" || vs[len(vs)-1] == "" {
		sep = ""
	}
	vs[len(vs)-1] += sep + cont
}

// locationBounds extracts the minimum and maximum coordinates from a
// location string (handles complement, join, order and partial markers)
// and converts them to a 0-based half-open interval.
func locationBounds(loc string) (int, int, error) {
	min, max := 0, 0
	seen := false
	num := -1
	for i := 0; i <= len(loc); i++ {
		var c byte
		if i < len(loc) {
			c = loc[i]
		}
		if c >= '0' && c <= '9' {
			if num < 0 {
				num = 0
			}
			num = num*10 + int(c-'0')
			continue
		}
		if num >= 0 {
			if !seen || num < min {
				min = num
			}
			if !seen || num > max {
				max = num
			}
			seen = true
			num = -1
		}
	}
	if !seen || min < 1 {
		return 0, 0, fmt.Errorf("no usable coordinates in location %q", loc)
	}
	return min - 1, max, nil
}
