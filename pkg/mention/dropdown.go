package mention

// DropdownState is Closed or Open
type DropdownState string

const (
	DropdownClosed DropdownState = "closed"
	DropdownOpen   DropdownState = "open"
)

// Dropdown is the keyboard-driven candidate list shown while a trigger is active
type Dropdown struct {
	state      DropdownState
	selected   int
	candidates []Candidate
}

// State returns the current state; the zero Dropdown is closed
func (d *Dropdown) State() DropdownState {
	if d.state == "" {
		return DropdownClosed
	}
	return d.state
}

// IsOpen reports whether candidates are being offered
func (d *Dropdown) IsOpen() bool {
	return d.state == DropdownOpen
}

// Update opens the dropdown on an active trigger with at least one candidate and closes it otherwise.
// The highlighted row resets when the candidate list changes.
func (d *Dropdown) Update(triggerActive bool, candidates []Candidate) {
	if !triggerActive || len(candidates) == 0 {
		d.Close()
		return
	}
	if !d.IsOpen() || !sameCandidates(d.candidates, candidates) {
		d.selected = 0
	}
	d.state = DropdownOpen
	d.candidates = candidates
}

// Next moves the highlight down, wrapping to the top
func (d *Dropdown) Next() {
	if !d.IsOpen() {
		return
	}
	d.selected = (d.selected + 1) % len(d.candidates)
}

// Prev moves the highlight up, wrapping to the bottom
func (d *Dropdown) Prev() {
	if !d.IsOpen() {
		return
	}
	d.selected = (d.selected - 1 + len(d.candidates)) % len(d.candidates)
}

// Selected returns the highlighted candidate
func (d *Dropdown) Selected() (Candidate, bool) {
	if !d.IsOpen() {
		return Candidate{}, false
	}
	return d.candidates[d.selected], true
}

// SelectedIndex returns the highlighted row
func (d *Dropdown) SelectedIndex() int {
	return d.selected
}

// Candidates returns the offered candidates
func (d *Dropdown) Candidates() []Candidate {
	return d.candidates
}

// Close hides the dropdown
func (d *Dropdown) Close() {
	d.state = DropdownClosed
	d.selected = 0
	d.candidates = nil
}

func sameCandidates(a, b []Candidate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Kind != b[i].Kind {
			return false
		}
	}
	return true
}
