package repositories

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit to usable values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
