package groupchat

// directory is the participant directory owned by a GroupChat: enrollment
// metadata plus the per-participant consecutive-turn counters. Iteration
// order is the order participants were added, so selection is deterministic.
type directory struct {
	participants map[string]*ParticipantInfo
	order        []string
	consecutive  map[string]int
}

func newDirectory() *directory {
	return &directory{
		participants: make(map[string]*ParticipantInfo),
		consecutive:  make(map[string]int),
	}
}

func (d *directory) add(info *ParticipantInfo) {
	if _, exists := d.participants[info.AgentName]; !exists {
		d.order = append(d.order, info.AgentName)
	}
	d.participants[info.AgentName] = info
	d.consecutive[info.AgentName] = 0
}

func (d *directory) remove(name string) bool {
	if _, exists := d.participants[name]; !exists {
		return false
	}
	delete(d.participants, name)
	delete(d.consecutive, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

func (d *directory) get(name string) (*ParticipantInfo, bool) {
	info, ok := d.participants[name]
	return info, ok
}

func (d *directory) len() int {
	return len(d.participants)
}

// names returns all participant names in directory order.
func (d *directory) names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// active returns non-observer participant names in directory order.
func (d *directory) active() []string {
	out := make([]string, 0, len(d.order))
	for _, name := range d.order {
		if d.participants[name].Role != RoleObserver {
			out = append(out, name)
		}
	}
	return out
}

// available filters the given names down to those below their consecutive
// turn limit.
func (d *directory) available(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if d.consecutive[name] < d.participants[name].MaxConsecutiveTurns {
			out = append(out, name)
		}
	}
	return out
}

// resetCounters zeroes the consecutive-turn counters for the given names.
func (d *directory) resetCounters(names []string) {
	for _, name := range names {
		d.consecutive[name] = 0
	}
}

// bump increments the speaker's consecutive-turn counter and zeroes all
// other participants' counters.
func (d *directory) bump(speaker string) {
	for name := range d.consecutive {
		if name == speaker {
			d.consecutive[name]++
		} else {
			d.consecutive[name] = 0
		}
	}
}

func (d *directory) snapshot() []ParticipantInfo {
	out := make([]ParticipantInfo, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, *d.participants[name])
	}
	return out
}
