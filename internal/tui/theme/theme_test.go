package theme

import "testing"

func TestByName(t *testing.T) {
	got, ok := ByName("tokyo-night")
	if !ok || got.Name != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q, %v", got.Name, ok)
	}
	got, ok = ByName("solarized")
	if ok || got.Name != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, %v, want default", got.Name, ok)
	}
}

func TestThemesFillEveryRole(t *testing.T) {
	seen := map[string]bool{}
	for _, th := range All {
		if seen[th.Name] {
			t.Fatalf("duplicate theme name %q", th.Name)
		}
		seen[th.Name] = true
		roles := map[string]string{
			"Surface": string(th.Surface), "TextPrimary": string(th.TextPrimary),
			"Good": string(th.Good), "Caution": string(th.Caution), "Alert": string(th.Alert),
			"Info": string(th.Info), "Interest": string(th.Interest), "Key": string(th.Key),
		}
		for role, c := range roles {
			if c == "" {
				t.Fatalf("%s: %s is empty", th.Name, role)
			}
		}
		if th.Good == th.Alert {
			t.Fatalf("%s: Good and Alert share a color", th.Name)
		}
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	SetActive("catppuccin-mocha")
	if Active.Name != "catppuccin-mocha" {
		t.Fatalf("Active = %q", Active.Name)
	}
	SetActive("nope")
	if Active.Name != FlexokiDark.Name {
		t.Fatalf("Active = %q, want fallback", Active.Name)
	}
}
