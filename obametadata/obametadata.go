// Package obametadata parses the textproto-like OBA source metadata
// format used to position object-based audio element channels from the
// command line: a sequence of
//
//	source {
//	  input_channel: 0
//	  azimuth: 30
//	  elevation: 0
//	  distance: 1
//	  gain: 1
//	}
//
// blocks, one per rendered object channel. There is no protobuf
// dependency anywhere in the retrieval pack, and generating one here
// would mean running protoc against a .proto this module does not carry;
// this package is a minimal hand-written scanner over the same field set
// instead.
package obametadata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Source is one object channel's position and gain, read from a single
// "source { ... }" block.
type Source struct {
	InputChannel                      int
	Azimuth, Elevation, Distance, Gain float64
}

// SourceList is an ordered collection of Sources, in the order they were
// declared in the metadata file.
type SourceList struct {
	Sources []Source
}

// Parse reads r as a sequence of "source { field: value ... }" blocks and
// returns them in declaration order.
func Parse(r io.Reader) (*SourceList, error) {
	tokens, err := tokenize(r)
	if err != nil {
		return nil, fmt.Errorf("obametadata: %w", err)
	}

	list := &SourceList{}
	i := 0
	for i < len(tokens) {
		if tokens[i] != "source" {
			return nil, fmt.Errorf("obametadata: expected %q, got %q", "source", tokens[i])
		}
		i++
		if i >= len(tokens) || tokens[i] != "{" {
			return nil, fmt.Errorf("obametadata: expected %q after %q", "{", "source")
		}
		i++

		source := Source{Gain: 1, Distance: 1}
		for i < len(tokens) && tokens[i] != "}" {
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("obametadata: truncated field at %q", tokens[i])
			}
			field := tokens[i]
			value := tokens[i+1]
			i += 2

			switch field {
			case "input_channel":
				n, err := strconv.Atoi(value)
				if err != nil {
					return nil, fmt.Errorf("obametadata: invalid input_channel %q: %w", value, err)
				}
				source.InputChannel = n
			case "azimuth":
				v, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, fmt.Errorf("obametadata: invalid azimuth %q: %w", value, err)
				}
				source.Azimuth = v
			case "elevation":
				v, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, fmt.Errorf("obametadata: invalid elevation %q: %w", value, err)
				}
				source.Elevation = v
			case "distance":
				v, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, fmt.Errorf("obametadata: invalid distance %q: %w", value, err)
				}
				source.Distance = v
			case "gain":
				v, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, fmt.Errorf("obametadata: invalid gain %q: %w", value, err)
				}
				source.Gain = v
			default:
				return nil, fmt.Errorf("obametadata: unknown field %q", field)
			}
		}
		if i >= len(tokens) {
			return nil, fmt.Errorf("obametadata: unterminated source block")
		}
		i++ // consume "}"

		list.Sources = append(list.Sources, source)
	}

	return list, nil
}

// tokenize splits r into whitespace-delimited tokens, treating "{" and "}"
// as tokens in their own right even when not surrounded by whitespace,
// dropping every ":" as if it were whitespace, and stripping a trailing
// "#"-prefixed comment from each line.
func tokenize(r io.Reader) ([]string, error) {
	var tokens []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.ReplaceAll(line, "{", " { ")
		line = strings.ReplaceAll(line, "}", " } ")
		line = strings.ReplaceAll(line, ":", " ")
		for _, f := range strings.Fields(line) {
			tokens = append(tokens, f)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}
