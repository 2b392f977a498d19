package ddl

import "fmt"

// Kind is the logical type of a schedule column, independent of dialect.
type Kind int

const (
	KindString Kind = iota
	KindDate
	KindTime
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is one logical destination column. Size bounds string columns; 0
// means unbounded.
type Column struct {
	Name string
	Kind Kind
	Size int
}

// KeyColumn is the store-generated primary key. The pipeline never writes it.
const KeyColumn = "flight_id"

// ScheduleColumns is the destination schema, in insert order.
var ScheduleColumns = []Column{
	{Name: "flight_iata", Kind: KindString, Size: 8},
	{Name: "status", Kind: KindString, Size: 10},
	{Name: "departure_airport", Kind: KindString, Size: 255},
	{Name: "arrival_airport", Kind: KindString, Size: 255},
	{Name: "dep_date", Kind: KindDate},
	{Name: "dep_time", Kind: KindTime},
	{Name: "dep_time_upd", Kind: KindTime},
	{Name: "dep_time_act", Kind: KindTime},
	{Name: "arr_date", Kind: KindDate},
	{Name: "arr_time", Kind: KindTime},
	{Name: "arr_time_upd", Kind: KindTime},
	{Name: "duration", Kind: KindFloat},
	{Name: "delayed", Kind: KindFloat},
	{Name: "dep_delayed", Kind: KindFloat},
	{Name: "arr_date_upd", Kind: KindDate},
	{Name: "dep_date_upd", Kind: KindDate},
	{Name: "dep_date_act", Kind: KindDate},
}

// KindOf returns the logical kind of a schedule column.
func KindOf(name string) (Kind, bool) {
	for _, c := range ScheduleColumns {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return 0, false
}

// Dialect renders the schedule schema for one backend.
type Dialect struct {
	// Quote quotes a single identifier. Nil leaves names as-is.
	Quote func(string) string
	// Type maps a logical column to a SQL type.
	Type func(Column) string
	// Key is the SQL type of the generated key column, e.g. "BIGSERIAL".
	Key string
	// KeyDefault is an optional default expression for the key.
	KeyDefault string
	// NoPrimaryKey omits the PRIMARY KEY clause (ClickHouse uses ORDER BY).
	NoPrimaryKey bool
	IfNotExists  bool
	Suffix       string
}

// ScheduleTable builds the TableDef for the schedule table named fqn, which
// must already be quoted.
func ScheduleTable(fqn string, d Dialect) TableDef {
	quote := d.Quote
	if quote == nil {
		quote = func(s string) string { return s }
	}
	cols := make([]ColumnDef, 0, len(ScheduleColumns)+1)
	cols = append(cols, ColumnDef{
		Name:       quote(KeyColumn),
		SQLType:    d.Key,
		PrimaryKey: !d.NoPrimaryKey,
		Default:    d.KeyDefault,
	})
	for _, c := range ScheduleColumns {
		cols = append(cols, ColumnDef{
			Name:     quote(c.Name),
			SQLType:  d.Type(c),
			Nullable: true,
		})
	}
	return TableDef{
		FQN:         fqn,
		Columns:     cols,
		IfNotExists: d.IfNotExists,
		Suffix:      d.Suffix,
	}
}
