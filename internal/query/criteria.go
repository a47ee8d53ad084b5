package query

// Criteria is a conjunction of exact-match field constraints. An empty
// string means the field is unconstrained. Values are matched verbatim
// against index keys: "S" and "s" are different surnames.
type Criteria struct {
	Surname  string `json:"surname,omitempty"`
	Province string `json:"province,omitempty"`
	Year     string `json:"year,omitempty"`
}

// Empty reports whether no field is constrained.
func (c Criteria) Empty() bool {
	return c.Surname == "" && c.Province == "" && c.Year == ""
}

// Result is the answer to one query: the matching record lines in ascending
// corpus-position order.
type Result struct {
	Criteria Criteria `json:"criteria"`
	Total    int      `json:"total"`
	Records  []string `json:"records"`
}
