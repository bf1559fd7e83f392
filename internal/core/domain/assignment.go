package domain

// Assignment is an ordered mapping from Slot to an optional string value.
//
// The zero value is the all-absent assignment. Assignments are transient:
// one is constructed per invocation, encoded, and discarded.
type Assignment struct {
	values  [NumSlots]string
	present [NumSlots]bool
}

// Set records a value for the slot. Setting a slot marks it present even
// when the value is empty; note that the section format collapses a present
// empty string into "absent" on decode.
func (a *Assignment) Set(slot Slot, value string) {
	if !slot.IsValid() {
		return
	}
	a.values[slot] = value
	a.present[slot] = true
}

// Clear marks the slot absent.
func (a *Assignment) Clear(slot Slot) {
	if !slot.IsValid() {
		return
	}
	a.values[slot] = ""
	a.present[slot] = false
}

// Get returns the slot's value and whether it is present.
func (a *Assignment) Get(slot Slot) (string, bool) {
	if !slot.IsValid() || !a.present[slot] {
		return "", false
	}
	return a.values[slot], true
}

// IsEmpty returns true when no slot is present.
func (a *Assignment) IsEmpty() bool {
	for _, p := range a.present {
		if p {
			return false
		}
	}
	return true
}

// Equal compares two assignments slot by slot.
func (a *Assignment) Equal(other *Assignment) bool {
	if other == nil {
		return a == nil
	}
	return a.values == other.values && a.present == other.present
}
