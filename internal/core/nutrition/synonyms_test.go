package nutrition

import "testing"

func TestNormalizeRewritesRegionalNames(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"palta", "aguacate"},
		{"ensalada de palta", "ensalada de aguacate"},
		{"Jitomate asado", "tomate asado"},
		{"CHOCLO con queso", "maiz con queso"},
		{"batido de frutilla y banano", "batido de fresa y platano"},
		{"sin cambios", "sin cambios"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"palta con jitomate y choclo",
		"frutilla poroto alubia betabel camote durazno zapallo banano",
		"aguacate tomate maiz fresa frijol",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeTableInvariant(t *testing.T) {
	// canonical 含任何 regional 子字串會破壞冪等性
	for _, a := range synonymTable {
		for _, b := range synonymTable {
			if containsFold(a.canonical, b.regional) {
				t.Errorf("canonical %q contains regional %q", a.canonical, b.regional)
			}
		}
	}
}

func containsFold(s, sub string) bool {
	return len(replaceFold(s, sub, "")) != len(s)
}
