package pagination

const (
	// DefaultPerPage is the standard page size when resPerPage is not provided.
	DefaultPerPage = 10
	// MaxPerPage caps how many rows any listing can request.
	MaxPerPage = 100
)

// Params holds page/resPerPage listing inputs. Page is 1-based.
type Params struct {
	Page    int
	PerPage int
}

// Normalize clamps the inputs to sane values.
func (p Params) Normalize() Params {
	out := p
	if out.Page <= 0 {
		out.Page = 1
	}
	if out.PerPage <= 0 {
		out.PerPage = DefaultPerPage
	}
	if out.PerPage > MaxPerPage {
		out.PerPage = MaxPerPage
	}
	return out
}

// Offset returns the number of rows to skip for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return n.PerPage * (n.Page - 1)
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PerPage
}
