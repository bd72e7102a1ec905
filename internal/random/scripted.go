package random

// Scripted replays queued results. When a queue runs dry Intn returns 0 and
// String falls back to Fallback (or "" when nil).
type Scripted struct {
	ints    []int
	strings []string

	Fallback Random
}

var _ Random = (*Scripted)(nil)

func NewScripted() *Scripted {
	return &Scripted{}
}

func (r *Scripted) QueueIntn(values ...int) *Scripted {
	r.ints = append(r.ints, values...)
	return r
}

func (r *Scripted) QueueString(values ...string) *Scripted {
	r.strings = append(r.strings, values...)
	return r
}

func (r *Scripted) Intn(n int) int {
	if len(r.ints) == 0 {
		if r.Fallback != nil {
			return r.Fallback.Intn(n)
		}
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if n > 0 {
		v %= n
	}
	return v
}

func (r *Scripted) String(length int, alphabet string) string {
	if len(r.strings) == 0 {
		if r.Fallback != nil {
			return r.Fallback.String(length, alphabet)
		}
		return ""
	}
	v := r.strings[0]
	r.strings = r.strings[1:]
	return v
}
