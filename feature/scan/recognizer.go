package scan

import "context"

// Recognizer is the boundary to the recognition collaborator: one
// best-effort textual recognition call per scan attempt. An empty string
// with a nil error means nothing was recognized, which the core treats as
// resolvable by retry, not as an error.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, image []byte) (string, error)

// Recognize calls the wrapped function.
func (f RecognizerFunc) Recognize(ctx context.Context, image []byte) (string, error) {
	return f(ctx, image)
}
