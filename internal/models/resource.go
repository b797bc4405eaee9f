package models

// Resource is one of the auditable entity types. The set is closed: table
// names are only ever taken from resourceTables, never from request input.
type Resource string

const (
	ResourceMachines Resource = "machines"
	ResourceTickets  Resource = "tickets"
	ResourceUsers    Resource = "users"
)

type resourceInfo struct {
	table    string
	redacted []string
}

var resourceTables = map[Resource]resourceInfo{
	ResourceMachines: {table: "maquinas"},
	ResourceTickets:  {table: "tickets"},
	ResourceUsers:    {table: "usuarios", redacted: []string{"password_hash"}},
}

// ParseResource maps a route segment (e.g. "tickets") to a Resource.
func ParseResource(s string) (Resource, bool) {
	r := Resource(s)
	if _, ok := resourceTables[r]; !ok {
		return "", false
	}
	return r, true
}

// Valid reports whether r is one of the known resources.
func (r Resource) Valid() bool {
	_, ok := resourceTables[r]
	return ok
}

// Table returns the SQL table backing r, or "" for an unknown resource.
func (r Resource) Table() string {
	return resourceTables[r].table
}

// RedactedColumns lists columns that must never leave the store in a snapshot.
func (r Resource) RedactedColumns() []string {
	return resourceTables[r].redacted
}
