package services

import "context"

const (
	SharedProjectsCollection = "shareProjects"
	UsersCollection          = "users"
	capacityDocID            = "dashboardCapacity"
)

// UserProjectsCollection is the private project namespace of uid.
func UserProjectsCollection(uid string) string {
	return UsersCollection + "/" + uid + "/projects"
}

// UserSettingsCollection holds the per-user settings documents.
func UserSettingsCollection(uid string) string {
	return UsersCollection + "/" + uid + "/settings"
}

type FilterOp string

const (
	OpEqual         FilterOp = "=="
	OpArrayContains FilterOp = "array-contains"
)

type Filter struct {
	Field string
	Op    FilterOp
	Value interface{}
}

func Where(field string, op FilterOp, value interface{}) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

type Document struct {
	ID   string
	Data map[string]interface{}
}

// DocumentStore is the document database the repositories persist into.
// Writes are atomic per document; there are no multi-document transactions.
type DocumentStore interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Set writes the whole document, or merges top-level fields when merge is set.
	Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error
	// Add creates a document with a generated id.
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// Update replaces the given top-level fields. Missing documents yield ErrNotFound.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	// Watch streams the current document and every later change. A nil
	// document means it was deleted. The channel closes when ctx is done.
	Watch(ctx context.Context, collection, id string) (<-chan *Document, error)
	Ping(ctx context.Context) error
	Close() error
}

// matches evaluates filters against raw document data. Used by the stores
// that do not have a query engine of their own.
func matches(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		switch f.Op {
		case OpEqual:
			if !ok || !scalarEqual(v, f.Value) {
				return false
			}
		case OpArrayContains:
			if !ok || !arrayContains(v, f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func arrayContains(v, want interface{}) bool {
	switch arr := v.(type) {
	case []interface{}:
		for _, item := range arr {
			if scalarEqual(item, want) {
				return true
			}
		}
	case []string:
		for _, item := range arr {
			if scalarEqual(item, want) {
				return true
			}
		}
	}
	return false
}

func scalarEqual(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return a == b
}
