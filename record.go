package influxstream

// Record is one decoded data row: the table metadata it belongs to plus the
// positional values of that row. TableIndex counts annotation-delimited
// tables within the overall result set, starting at 0.
type Record struct {
	Meta       TableMetadata
	Values     []Value
	TableIndex int
}

// Get returns the value of the named column, or (Value{}, false) if the
// column does not exist in this record's table.
func (r Record) Get(column string) (Value, bool) {
	i, ok := r.Meta.ColumnIndex(column)
	if !ok {
		return Value{}, false
	}
	return r.Values[i], true
}

// GetString returns the named column as a string. ok is false if the column
// does not exist or is not a String value.
func (r Record) GetString(column string) (string, bool) {
	v, ok := r.Get(column)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetDouble returns the named column as a float64. ok is false if the
// column does not exist or is not a Double value.
func (r Record) GetDouble(column string) (float64, bool) {
	v, ok := r.Get(column)
	if !ok {
		return 0, false
	}
	return v.AsDouble()
}

// GetLong returns the named column as an int64. ok is false if the column
// does not exist or is not a Long value.
func (r Record) GetLong(column string) (int64, bool) {
	v, ok := r.Get(column)
	if !ok {
		return 0, false
	}
	return v.AsLong()
}

// GetBool returns the named column as a bool. ok is false if the column
// does not exist or is not a Bool value.
func (r Record) GetBool(column string) (bool, bool) {
	v, ok := r.Get(column)
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// Time returns the conventional "_time" column.
func (r Record) Time() (Value, bool) { return r.Get("_time") }

// Measurement returns the conventional "_measurement" column.
func (r Record) Measurement() (Value, bool) { return r.Get("_measurement") }

// Field returns the conventional "_field" column.
func (r Record) Field() (Value, bool) { return r.Get("_field") }

// Value returns the conventional "_value" column.
func (r Record) Value() (Value, bool) { return r.Get("_value") }
