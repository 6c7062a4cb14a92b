package theme

import "testing"

func TestByName(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Errorf("unknown name = %q, want default %q", got.Name, FlexokiDark.Name)
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)

	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Errorf("Active.Name = %q, want terminal", Active.Name)
	}
}
