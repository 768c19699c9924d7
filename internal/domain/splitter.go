package domain

import (
	"bytes"
	"context"
	"io"
	"iter"
)

// DefaultChunkSize is the read size used by the pipeline.
const DefaultChunkSize = 64 * 1024

// maxRetainedLine caps the partial-line buffer kept between lines. A longer
// line is still handled; its buffer is just released afterwards.
const maxRetainedLine = 1 << 20

// ReadChunks yields successive reads from r until EOF. The yielded slice is
// only valid until the next iteration. The context is checked before every
// read.
func ReadChunks(ctx context.Context, r io.Reader, size int) iter.Seq2[[]byte, error] {
	if size <= 0 {
		size = DefaultChunkSize
	}

	return func(yield func([]byte, error) bool) {
		buf := make([]byte, size)

		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			n, err := r.Read(buf)
			if n > 0 && !yield(buf[:n], nil) {
				return
			}

			if err == io.EOF {
				return
			}

			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

// SplitLines turns a chunk sequence into lines. Every line keeps its "\n"
// terminator except possibly the last one. Only the current partial line is
// buffered, so memory is bounded by the longest line rather than the input.
// The first chunk error is yielded and ends the sequence.
func SplitLines(chunks iter.Seq2[[]byte, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var partial []byte

		for chunk, err := range chunks {
			if err != nil {
				yield("", err)
				return
			}

			for len(chunk) > 0 {
				i := bytes.IndexByte(chunk, '\n')
				if i < 0 {
					partial = append(partial, chunk...)
					break
				}

				var line string

				if len(partial) > 0 {
					partial = append(partial, chunk[:i+1]...)
					line = string(partial)

					if cap(partial) > maxRetainedLine {
						partial = nil
					} else {
						partial = partial[:0]
					}
				} else {
					line = string(chunk[:i+1])
				}

				if !yield(line, nil) {
					return
				}

				chunk = chunk[i+1:]
			}
		}

		if len(partial) > 0 {
			yield(string(partial), nil)
		}
	}
}
