// Package downloader copies remote media resources to local files.
package downloader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/famomatic/bilidown/internal/types"
)

// ChunkSize is the fixed transfer buffer size.
const ChunkSize = 8192

// RemoteWriter copies one remote resource to a local path.
type RemoteWriter interface {
	WriteRemoteToFile(ctx context.Context, remoteURL, path string) (int64, error)
}

// ProgressReporter is an interface for reporting download progress.
type ProgressReporter interface {
	OnProgress(bytesWritten int64, totalBytes int64)
}

// Writer is the chunked RemoteWriter.
type Writer struct {
	client   *http.Client
	headers  http.Header
	cfg      TransportConfig
	progress ProgressReporter
}

// Option customizes a Writer.
type Option func(*Writer)

// WithProgress reports progress after every chunk.
func WithProgress(p ProgressReporter) Option {
	return func(w *Writer) { w.progress = p }
}

// WithTransport sets the retry policy for opening the remote resource.
func WithTransport(cfg TransportConfig) Option {
	return func(w *Writer) { w.cfg = cfg }
}

// New returns a Writer sending headers on every media request.
func New(client *http.Client, headers http.Header, opts ...Option) *Writer {
	if client == nil {
		client = http.DefaultClient
	}
	w := &Writer{client: client, headers: headers.Clone()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRemoteToFile creates or truncates path and streams remoteURL into it.
// Both the response body and the file are closed on every return path.
// Local failures satisfy errors.Is(err, types.ErrIO).
func (w *Writer) WriteRemoteToFile(ctx context.Context, remoteURL, path string) (n int64, err error) {
	resp, err := w.open(ctx, remoteURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := os.Create(path)
	if err != nil {
		return 0, &types.IOError{Path: path, Op: "create", Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &types.IOError{Path: path, Op: "close", Err: cerr}
		}
	}()

	return w.copyChunks(file, resp.Body, resp.ContentLength, path)
}

func (w *Writer) copyChunks(dst io.Writer, src io.Reader, total int64, path string) (int64, error) {
	buf := make([]byte, ChunkSize)
	var written int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			if werr == nil && nw != nr {
				werr = io.ErrShortWrite
			}
			if werr != nil {
				return written, &types.IOError{Path: path, Op: "write", Err: werr}
			}
			if w.progress != nil {
				w.progress.OnProgress(written, total)
			}
		}
		if errors.Is(rerr, io.EOF) {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
