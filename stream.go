package proc

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
)

// chunkHandler receives the unconsumed bytes accumulated so far for one
// stream. isOut identifies the stream (true for stdout), and eof reports
// that no more bytes will ever arrive for it. The handler may consume a
// prefix of *data by reslicing or rewriting it; whatever it leaves is
// carried into the next invocation for the same stream.
type chunkHandler func(isOut bool, data *[]byte, eof bool)

type chunk struct {
	out  bool
	data []byte
	eof  bool
}

// readStreams drains two pipes concurrently and invokes handler serially, in
// arrival order, as data becomes available. Each pipe has a dedicated reader
// goroutine that never stops reading, so the child cannot block on a full
// pipe buffer no matter how lopsided the output volume is between the two
// streams. End of stream is signalled to the handler exactly once per
// stream; byte order within a stream is preserved.
func readStreams(stdout, stderr io.Reader, handler chunkHandler) error {
	ch := make(chan chunk)

	read := func(r io.Reader, out bool) error {
		buf := make([]byte, 32*1024)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				ch <- chunk{out: out, data: data}
			}
			if err != nil {
				if err != io.EOF {
					// Keep draining so the child can never
					// block writing to this pipe.
					io.Copy(io.Discard, r)
					ch <- chunk{out: out, eof: true}
					return err
				}
				ch <- chunk{out: out, eof: true}
				return nil
			}
		}
	}

	var g errgroup.Group
	g.Go(func() error { return read(stdout, true) })
	g.Go(func() error { return read(stderr, false) })
	go func() {
		g.Wait()
		close(ch)
	}()

	var stdoutPending, stderrPending []byte
	for c := range ch {
		pending := &stdoutPending
		if !c.out {
			pending = &stderrPending
		}
		if len(c.data) > 0 {
			*pending = append(*pending, c.data...)
		}
		handler(c.out, pending, c.eof)
	}

	return g.Wait()
}

// lineDispatcher turns stream chunks into complete lines and routes them to
// the configured callbacks, optionally mirroring consumed bytes into capture
// buffers. The first callback error is latched; once set, no further
// callback runs on either stream, but consumption continues so the pipes
// keep draining.
type lineDispatcher struct {
	onStdout LineCallback
	onStderr LineCallback
	capture  bool

	stdout []byte
	stderr []byte

	callbackErr error
}

func (d *lineDispatcher) dispatch(isOut bool, data *[]byte, eof bool) {
	buf := *data

	// At end of stream everything remaining is ready; otherwise only the
	// region up to the last line terminator is. With no terminator in the
	// buffer, wait for more data.
	idx := len(buf)
	if !eof {
		n := bytes.LastIndexByte(buf, '\n')
		if n < 0 {
			return
		}
		idx = n + 1
	}

	var ready []byte
	if d.capture {
		dst := &d.stdout
		if !isOut {
			dst = &d.stderr
		}
		start := len(*dst)
		*dst = append(*dst, buf[:idx]...)
		ready = (*dst)[start:]
	} else {
		ready = buf[:idx]
	}

	for _, line := range splitLines(ready) {
		// Once a callback has failed, skip invocation but keep
		// consuming: aborting the drain could leave a pipe full and
		// deadlock the child.
		if d.callbackErr != nil {
			continue
		}
		cb := d.onStdout
		if !isOut {
			cb = d.onStderr
		}
		if err := cb(line); err != nil {
			d.callbackErr = err
		}
	}

	*data = append(buf[:0], buf[idx:]...)
}

// splitLines decodes a ready region and splits it into lines. Invalid UTF-8
// is repaired per region with the replacement character; a multi-byte rune
// straddling two reads can therefore be mangled, since regions are decoded
// independently. Line terminators are not included; a trailing \r before the
// terminator is stripped.
func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	text := strings.ToValidUTF8(string(b), "�")
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
