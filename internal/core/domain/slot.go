// Package domain defines the provenance field schema shared by the encoder,
// the patch pipeline, and the runtime readers.
package domain

import "fmt"

// Slot is one named optional string field in the fixed provenance schema.
//
// The schema is closed and ordinal-stable: slot ordinals are part of the
// on-disk section format, so reordering or removing a slot is a breaking
// format change. New slots may only be appended.
type Slot int

const (
	SlotGitSHA Slot = iota
	SlotGitDescribe
	SlotGitBranch
	SlotGitCommitTime
	SlotGitCommitDate
	SlotGitCommitMessage
	SlotBuildTime
	SlotBuildDate
	SlotCustom

	// NumSlots is the number of slots in the schema.
	NumSlots = int(SlotCustom) + 1
)

var slotStrings = map[Slot]string{
	SlotGitSHA:           "git-sha",
	SlotGitDescribe:      "git-describe",
	SlotGitBranch:        "git-branch",
	SlotGitCommitTime:    "git-commit-time",
	SlotGitCommitDate:    "git-commit-date",
	SlotGitCommitMessage: "git-commit-msg",
	SlotBuildTime:        "build-time",
	SlotBuildDate:        "build-date",
	SlotCustom:           "custom",
}

var stringToSlot = map[string]Slot{
	"git-sha":         SlotGitSHA,
	"git-describe":    SlotGitDescribe,
	"git-branch":      SlotGitBranch,
	"git-commit-time": SlotGitCommitTime,
	"git-commit-date": SlotGitCommitDate,
	"git-commit-msg":  SlotGitCommitMessage,
	"build-time":      SlotBuildTime,
	"build-date":      SlotBuildDate,
	"custom":          SlotCustom,
}

// String returns the stable string name of the slot.
func (s Slot) String() string {
	if name, ok := slotStrings[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSlot parses a slot name to its Slot value.
func ParseSlot(name string) (Slot, error) {
	if s, ok := stringToSlot[name]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("invalid slot name: %s", name)
}

// IsValid returns true if the slot ordinal is within the schema.
func (s Slot) IsValid() bool {
	return s >= 0 && int(s) < NumSlots
}

// Slots returns all slots in ordinal order.
func Slots() []Slot {
	all := make([]Slot, NumSlots)
	for i := range all {
		all[i] = Slot(i)
	}
	return all
}
