package component

// Name is a display label.
type Name struct {
	Value string
}
