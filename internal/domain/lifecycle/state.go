package lifecycle

// State is the soft-delete lifecycle shared by every persisted entity.
// Deactivated rows are excluded from default queries but never physically
// removed while anything references them.
type State string

const (
	Active      State = "active"
	Deactivated State = "deactivated"
)

func (s State) IsActive() bool {
	return s == Active
}
