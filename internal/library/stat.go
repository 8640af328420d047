package library

// Stat accumulates counters over load, merge and dump runs.
type Stat struct {
	BooksAdded          int
	AuthorsAdded        int
	SeriesAdded         int
	AuthorsRenamed      int
	SkippedUnknownFiles int

	uniqueAuthors map[string]struct{}
}

// RegisterAuthor records an author name and reports whether it was new.
func (s *Stat) RegisterAuthor(name string) bool {
	if s.uniqueAuthors == nil {
		s.uniqueAuthors = make(map[string]struct{})
	}

	if _, ok := s.uniqueAuthors[name]; ok {
		return false
	}

	s.uniqueAuthors[name] = struct{}{}

	return true
}

// UniqueAuthors returns how many distinct author names were registered.
func (s *Stat) UniqueAuthors() int { return len(s.uniqueAuthors) }
