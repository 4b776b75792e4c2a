package listview

// State tracks a page's query inputs and enforces the reset semantics:
// changing search, any filter, or the page size returns to page 1, and
// requesting the same sort key twice toggles the direction.
type State struct {
	query Query
	// window holds the load-more visible size; zero when paging is in use.
	window   int
	pageSize int
}

// NewState builds a query state with the given default page size.
func NewState(pageSize int) *State {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &State{
		query:    Query{Filters: map[string]string{}, Page: 1, PageSize: pageSize},
		pageSize: pageSize,
	}
}

// Query returns a copy of the current query.
func (s *State) Query() Query {
	q := s.query
	q.Filters = make(map[string]string, len(s.query.Filters))
	for k, v := range s.query.Filters {
		q.Filters[k] = v
	}
	return q
}

// SetSearch updates the search text and resets to page 1.
func (s *State) SetSearch(search string) {
	if s.query.Search == search {
		return
	}
	s.query.Search = search
	s.resetWindow()
}

// SetFilter updates one filter and resets to page 1.
func (s *State) SetFilter(field, value string) {
	if s.query.Filters[field] == value {
		return
	}
	s.query.Filters[field] = value
	s.resetWindow()
}

// SetPageSize updates the page size and resets to page 1.
func (s *State) SetPageSize(size int) {
	if size <= 0 || size == s.query.PageSize {
		return
	}
	s.query.PageSize = size
	s.query.Page = 1
}

// SetPage moves to a page; out-of-range values are clamped by Apply.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.query.Page = page
}

// SortBy sorts by key, toggling direction when the key is already active and
// defaulting to ascending on a new key.
func (s *State) SortBy(key string) {
	if s.query.SortKey == key {
		if s.query.SortOrder == SortAsc {
			s.query.SortOrder = SortDesc
		} else {
			s.query.SortOrder = SortAsc
		}
		return
	}
	s.query.SortKey = key
	s.query.SortOrder = SortAsc
}

// WindowSize returns the current load-more window size.
func (s *State) WindowSize() int {
	if s.window <= 0 {
		return s.query.PageSize
	}
	return s.window
}

// Grow extends the load-more window by one page size. The window never
// shrinks until a filter or search change resets it.
func (s *State) Grow() {
	s.window = s.WindowSize() + s.query.PageSize
}

func (s *State) resetWindow() {
	s.query.Page = 1
	s.window = 0
}
