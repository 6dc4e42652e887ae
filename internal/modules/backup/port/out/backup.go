package out

import "context"

type Archive interface {
	// Write stores payload at path. An empty path or a directory gets defaultName appended; it returns the final path.
	Write(ctx context.Context, path string, payload []byte, defaultName string) (string, error)
	Read(ctx context.Context, path string) ([]byte, error)
}
