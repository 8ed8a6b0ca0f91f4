package input

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Units   float64
	Current float64 // translation of the gesture in progress
	Help    bool
}

// RowUnits returns the scroll units per terminal row
func (c ModelContext) RowUnits() float64 {
	if c.Units <= 0 {
		return 1
	}
	return c.Units
}

// Translation returns the cumulative gesture translation
func (c ModelContext) Translation() float64 { return c.Current }

// HelpVisible reports whether the help screen is open
func (c ModelContext) HelpVisible() bool { return c.Help }
