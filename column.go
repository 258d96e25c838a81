package influxstream

// Column describes one field of a table: its position, declared wire type,
// the default text substituted for an empty cell, and whether it is a group
// key (part of the table's partitioning identity, per the #group annotation).
type Column struct {
	Name     string
	Type     DataType
	Default  string
	IsGroup  bool
	Position int
}

// TableMetadata is the header state in effect for the table currently being
// parsed: the ordered column list plus a name index used for O(1) lookup
// from Record.Get.
type TableMetadata struct {
	Columns []Column
	index   map[string]int
}

func newTableMetadata(columns []Column) TableMetadata {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c.Name] = i
	}
	return TableMetadata{Columns: columns, index: idx}
}

// ColumnIndex returns the position of a column by name, or (-1, false) if no
// such column exists in this table.
func (m TableMetadata) ColumnIndex(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}
