package server

import "net/http"

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func newResponseWriterWrapper(w http.ResponseWriter) *responseWriterWrapper {
	return &responseWriterWrapper{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

func (w *responseWriterWrapper) GetStatusCode() int {
	return w.statusCode
}

func (w *responseWriterWrapper) BytesWritten() int {
	return w.written
}
