package taxonomy

// ItemStatus is the workflow state of a single checklist item. Values are
// stored as-is in the phases JSON column and shown verbatim in the UI.
type ItemStatus string

const (
	StatusPending    ItemStatus = "Pending"
	StatusInProgress ItemStatus = "In Progress"
	StatusCompleted  ItemStatus = "Completed"
)

// ValidStatus reports whether s is one of the three known workflow states.
func ValidStatus(s ItemStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Item is one trackable checklist row within a phase. The JSON shape is the
// persisted wire format of the phases table's items column.
type Item struct {
	Item       string     `json:"item"`
	Cost       *float64   `json:"cost"`
	Attachment *string    `json:"attachment"`
	Status     ItemStatus `json:"status"`
	Completion string     `json:"completion"` // string-encoded integer 0-100
	Comments   string     `json:"comments"`
}

// DefaultCompletion is the completion value a fresh item carries.
const DefaultCompletion = "0"

// DefaultItem returns the fully-defaulted item for a sub-item name.
func DefaultItem(name string) Item {
	return Item{
		Item:       name,
		Cost:       nil,
		Attachment: nil,
		Status:     StatusPending,
		Completion: DefaultCompletion,
		Comments:   "",
	}
}
