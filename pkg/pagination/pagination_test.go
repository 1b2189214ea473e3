package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	got := Params{}.Normalize()
	if got.Page != 1 {
		t.Fatalf("expected page 1, got %d", got.Page)
	}
	if got.PerPage != DefaultPerPage {
		t.Fatalf("expected per page %d, got %d", DefaultPerPage, got.PerPage)
	}
}

func TestNormalizeClampsPerPage(t *testing.T) {
	got := Params{Page: 3, PerPage: MaxPerPage + 50}.Normalize()
	if got.PerPage != MaxPerPage {
		t.Fatalf("expected per page clamped to %d, got %d", MaxPerPage, got.PerPage)
	}

	got = Params{Page: -4, PerPage: -1}.Normalize()
	if got.Page != 1 || got.PerPage != DefaultPerPage {
		t.Fatalf("expected normalized defaults, got %+v", got)
	}
}

func TestOffsetAndLimit(t *testing.T) {
	p := Params{Page: 3, PerPage: 20}
	if got := p.Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
	if got := p.Limit(); got != 20 {
		t.Fatalf("expected limit 20, got %d", got)
	}

	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("expected zero offset for defaults, got %d", got)
	}
}
