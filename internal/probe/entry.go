package probe

import "os"

// Kind classifies a probed directory entry.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// KindFromMode derives the Kind from an os.FileMode. The mode comes
// from a symlink-following stat, so symlinks resolve to their target
// kind and never appear as a kind of their own.
func KindFromMode(mode os.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	default:
		return KindOther
	}
}

// Entry is one classified directory entry. Produced transiently per
// iteration; nothing persists across iterations.
type Entry struct {
	Name string
	Kind Kind
	Size int64 // valid only for KindFile
}
