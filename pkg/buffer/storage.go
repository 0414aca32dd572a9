package buffer

// Storage is the mutable rune sequence an edit session works on.
// Positions and lengths are expressed in runes (not bytes).
type Storage interface {
	Insert(pos int, s []rune) error
	Delete(start, end int) error
	RuneAt(i int) rune
	Len() int
	String() string
}

var _ Storage = (*GapBuffer)(nil)
