package h5

// MemberKind tells groups and datasets apart in a group listing.
type MemberKind uint8

const (
	MemberGroup MemberKind = iota + 1
	MemberDataset
)

func (k MemberKind) String() string {
	switch k {
	case MemberGroup:
		return "group"
	case MemberDataset:
		return "dataset"
	default:
		return "unknown"
	}
}

// Member is one entry of a group.
type Member struct {
	Name string
	Kind MemberKind
}

// AttrHolder reads and writes attributes of a group or dataset.
//
// Supported values are the fixed-size numeric Go types, slices of them, and
// strings. ReadAttr converts between numeric types; dest must be a pointer
// to one of the supported types.
type AttrHolder interface {
	WriteAttr(name string, value any) error
	ReadAttr(name string, dest any) error
	HasAttr(name string) bool
}

// Object is a group or a dataset.
type Object interface {
	AttrHolder
	// Name is the last path segment; "/" for the root group.
	Name() string
	Path() string
	Close() error
}

// Group holds named groups and datasets.
type Group interface {
	Object
	CreateGroup(name string) (Group, error)
	OpenGroup(name string) (Group, error)
	// WriteDataset creates a dataset of the given type and dimensions from
	// raw bytes in t.Order. len(raw) must equal the element count times
	// t.Size.
	WriteDataset(name string, t TypeInfo, dims []uint64, raw []byte) (Dataset, error)
	OpenDataset(name string) (Dataset, error)
	// Members lists the children sorted by name.
	Members() ([]Member, error)
}

// Dataset is an n-dimensional array of fixed-size numeric elements.
type Dataset interface {
	Object
	Shape() []uint64
	Type() TypeInfo
	// ReadRaw returns the stored bytes in Type().Order.
	ReadRaw() ([]byte, error)
}
