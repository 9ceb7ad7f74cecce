package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/tidwall/gjson"
	"io"
)

var ErrMissingAttribute = errors.New("missing attribute in read line")
var ErrInvalidJSON = errors.New("invalid json")

// MaxLineSize bounds a single NDJSON line. Long sensing windows make for long lines.
var MaxLineSize = 16 * 1024 * 1024

// Line is one NDJSON line: its 1-based number, raw bytes, and decoded value or decode error.
type Line[T any] struct {
	N     int
	Raw   []byte
	Value T
	Err   error
}

// NDJSON decodes newline-delimited JSON values from in.
// Lines missing any of the required gjson paths, or which fail to decode,
// are sent with Err set, and reading continues; blank lines are skipped.
// The error channel receives a read error, if any, and is closed when reading stops.
func NDJSON[T any](ctx context.Context, in io.Reader, required ...string) (<-chan Line[T], <-chan error) {
	out := make(chan Line[T])
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		defer close(out)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
		n := 0
		for scanner.Scan() {
			n++
			raw := scanner.Bytes()
			if len(raw) == 0 {
				continue
			}
			line := Line[T]{N: n, Raw: append([]byte(nil), raw...)}
			line.Err = decode(line.Raw, &line.Value, required)
			select {
			case <-ctx.Done():
				return
			case out <- line:
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("scanner(%w)", err)
		}
	}()
	return out, errs
}

func decode[T any](raw []byte, v *T, required []string) error {
	if !gjson.ValidBytes(raw) {
		return ErrInvalidJSON
	}
	for _, path := range required {
		if !gjson.GetBytes(raw, path).Exists() {
			return fmt.Errorf("%w: %s", ErrMissingAttribute, path)
		}
	}
	return json.Unmarshal(raw, v)
}

func Collect[T any](ctx context.Context, in <-chan T) []T {
	out := make([]T, 0)
	for element := range in {
		select {
		case <-ctx.Done():
			return out
		default:
			out = append(out, element)
		}
	}
	return out
}
