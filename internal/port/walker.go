package port

// FileInfo describes a file discovered during a walk.
type FileInfo struct {
	Path string
	Size int64
}

// FileWalker discovers the files under a root directory that are
// eligible for indexing.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}
