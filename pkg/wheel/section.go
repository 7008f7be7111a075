package wheel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MaxPercentage is the budget every wheel's sections must fit within.
	MaxPercentage = 100.0
	// Epsilon bounds the floating-point drift tolerated when comparing totals to the budget.
	Epsilon = 1e-6
)

// Section is a single named, weighted and coloured slice of a wheel.
type Section struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// String renders a section for logs and messages.
func (s Section) String() string {
	return fmt.Sprintf("%s (%v%%, %s)", s.Name, s.Percentage, s.Color)
}

// Sections is an ordered list of wheel sections. Order drives rendering and display.
type Sections []Section

// Total returns the sum of all section percentages.
func (s Sections) Total() float64 {
	var total float64

	for _, section := range s {
		total += section.Percentage
	}

	return total
}

// Index returns the position of the section whose name matches case-insensitively, or -1.
func (s Sections) Index(name string) int {
	for i, section := range s {
		if strings.EqualFold(section.Name, name) {
			return i
		}
	}

	return -1
}

// Clone returns a copy that shares no backing array with s.
func (s Sections) Clone() Sections {
	if s == nil {
		return Sections{}
	}

	out := make(Sections, len(s))
	copy(out, s)

	return out
}

// Complete reports whether the sections fill the whole budget.
func (s Sections) Complete() bool {
	return s.Total() >= MaxPercentage-Epsilon
}

// Remaining returns the percentage still unallocated, never negative.
func (s Sections) Remaining() float64 {
	return math.Max(0, MaxPercentage-s.Total())
}

func validPercentage(p float64) bool {
	return !math.IsNaN(p) && p > 0 && p <= MaxPercentage
}

func exceedsBudget(allocated, requested float64) bool {
	return allocated+requested > MaxPercentage+Epsilon
}

// FormatPercent renders a percentage without trailing zeros, e.g. "12.5%". Values are
// rounded to six decimal places so summation drift is not displayed.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(math.Round(p*1e6)/1e6, 'f', -1, 64) + "%"
}
