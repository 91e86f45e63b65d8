package properties

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrMalformedLine = errors.New("malformed properties line")
	ErrDuplicateKey  = errors.New("duplicate properties key")
)

type line struct {
	pair  bool
	raw   string // whole line for verbatim lines, the untrimmed key for pairs
	value string
	crlf  bool
}

// Document is a server.properties file which can be edited without disturbing
// comments, ordering or the spelling of untouched keys.
type Document struct {
	lines   []line
	entries map[string]int
}

func New() *Document {
	return &Document{
		entries: make(map[string]int),
	}
}

func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := New()

	texts := strings.Split(string(data), "\n")
	if texts[len(texts)-1] == "" {
		// The file ended with a terminator (or is empty).
		texts = texts[:len(texts)-1]
	}

	for i, text := range texts {
		l := line{}
		if strings.HasSuffix(text, "\r") {
			text = strings.TrimSuffix(text, "\r")
			l.crlf = true
		}

		if len(text) == 0 || strings.HasPrefix(strings.TrimLeft(text, " \t\f"), "#") {
			l.raw = text
			doc.lines = append(doc.lines, l)
			continue
		}

		pos := strings.IndexByte(text, '=')
		if pos == -1 {
			return nil, fmt.Errorf("%w: line %d: no '=' in %q", ErrMalformedLine, i+1, text)
		}

		l.pair = true
		l.raw = text[:pos]
		l.value = text[pos+1:]

		key := strings.TrimSpace(l.raw)
		if _, ok := doc.entries[key]; ok {
			return nil, fmt.Errorf("%w: line %d: %q is repeated", ErrDuplicateKey, i+1, key)
		}
		doc.entries[key] = len(doc.lines)
		doc.lines = append(doc.lines, l)
	}

	return doc, nil
}

func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (d *Document) Get(key string) (string, bool) {
	i, ok := d.entries[key]
	if !ok {
		return "", false
	}
	return d.lines[i].value, true
}

func (d *Document) GetOr(key, defaultValue string) string {
	if value, ok := d.Get(key); ok {
		return value
	}
	return defaultValue
}

// Set updates key in place, or appends it as a new line if it is not present yet.
func (d *Document) Set(key, value string) {
	if i, ok := d.entries[key]; ok {
		d.lines[i].value = value
		return
	}

	d.entries[key] = len(d.lines)
	d.lines = append(d.lines, line{
		pair:  true,
		raw:   key,
		value: value,
	})
}

func (d *Document) Keys() []string {
	var keys []string
	for _, l := range d.lines {
		if l.pair {
			keys = append(keys, strings.TrimSpace(l.raw))
		}
	}
	return keys
}

// WriteTo writes the document back. Every line but the last one is terminated.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	writer := bufio.NewWriter(w)

	var written int64
	for i, l := range d.lines {
		text := l.raw
		if l.pair {
			text = l.raw + "=" + l.value
		}
		if i < len(d.lines)-1 {
			if l.crlf {
				text += "\r\n"
			} else {
				text += "\n"
			}
		}

		n, err := writer.WriteString(text)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	return written, writer.Flush()
}

func (d *Document) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := d.WriteTo(file); err != nil {
		return err
	}
	return file.Close()
}
