package roadmap

// Table is the canonical, read-only set of records produced by a loader.
// Filtering derives new tables through Subset and never mutates the receiver.
type Table struct {
	Records []Record
	Headers []string
	Columns ColumnSet
}

func NewTable(records []Record, headers []string, columns ColumnSet) *Table {
	if columns == nil {
		columns = ColumnSet{}
	}
	return &Table{
		Records: records,
		Headers: append([]string(nil), headers...),
		Columns: columns,
	}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Subset returns a new table holding copies of the records at indices.
func (t *Table) Subset(indices []int) *Table {
	records := make([]Record, 0, len(indices))
	for _, i := range indices {
		records = append(records, t.Records[i].clone())
	}
	return &Table{
		Records: records,
		Headers: t.Headers,
		Columns: t.Columns,
	}
}

func (r Record) clone() Record {
	out := r
	if r.GroupList != nil {
		out.GroupList = append([]GroupID(nil), r.GroupList...)
	}
	if r.StartDate != nil {
		start := *r.StartDate
		out.StartDate = &start
	}
	if r.EndDate != nil {
		end := *r.EndDate
		out.EndDate = &end
	}
	if r.Year != nil {
		year := *r.Year
		out.Year = &year
	}
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for key, value := range r.Extra {
			out.Extra[key] = value
		}
	}
	return out
}
