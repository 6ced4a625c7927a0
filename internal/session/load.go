package session

import (
	"stepscope/internal/decode"
	"stepscope/internal/trace"
)

// ReadTrace decodes and derives the recording at path. It touches no session
// state and may run off the event loop.
func ReadTrace(path string, tags trace.TagTable) (*trace.Trace, error) {
	data, err := decode.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return trace.Load(data, trace.Options{Tags: tags})
}

// ParseTrace is ReadTrace for a payload already in memory, such as a
// clipboard paste. source only labels errors.
func ParseTrace(source string, payload []byte, tags trace.TagTable) (*trace.Trace, error) {
	data, err := decode.Decode(source, payload)
	if err != nil {
		return nil, err
	}
	return trace.Load(data, trace.Options{Tags: tags})
}
