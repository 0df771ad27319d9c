package names

import "testing"

func TestSplitHonorific(t *testing.T) {
	tests := []struct {
		line          string
		wantHonorific string
		wantRest      string
	}{
		{"Mr. John A. SMITH", "Mr.", "John A. SMITH"},
		{"Mrs. Jane DOE", "Mrs.", "Jane DOE"},
		{"Ms. A. JONES", "Ms.", "A. JONES"},
		{"Dr. Maria GARCIA", "Dr.", "Maria GARCIA"},
		{"Prof. K. TANAKA", "Prof.", "K. TANAKA"},
		{"H.E. Mr. Pierre DUPONT", "H.E. Mr.", "Pierre DUPONT"},
		{"S.E. M. Jean MARTIN", "S.E. M.", "Jean MARTIN"},
		{"H.R.H. Prince KHALED", "H.R.H.", "Prince KHALED"},
		{"Mme Claire BERNARD", "Mme", "Claire BERNARD"},
		{"Mlle Sophie ROY", "Mlle", "Sophie ROY"},
		{"Sra. Ana LOPEZ", "Sra.", "Ana LOPEZ"},
		{"Msgr. Paolo ROSSI", "Msgr.", "Paolo ROSSI"},
		{"SMITH, John", "", "SMITH, John"},
		{"Ministry of Environment", "", "Ministry of Environment"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h, rest := SplitHonorific(tt.line)
			if h != tt.wantHonorific || rest != tt.wantRest {
				t.Errorf("SplitHonorific(%q) = (%q, %q), want (%q, %q)",
					tt.line, h, rest, tt.wantHonorific, tt.wantRest)
			}
		})
	}
}

func TestHasHonorific(t *testing.T) {
	if !HasHonorific("Mr. John SMITH") {
		t.Error("Mr. prefix should be recognized")
	}
	if HasHonorific("BELGIUM") {
		t.Error("a delegation header has no honorific")
	}
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		span   string
		want   string
		wantOK bool
	}{
		// Comma form: surname left of the comma.
		{"SMITH, John", "John Smith", true},
		{"SMITH, JOHN", "John Smith", true},
		{"GARCIA, MARIA ELENA", "Maria Elena Garcia", true},
		{"GARCIA LOPEZ, Maria", "Maria Garcia Lopez", true},
		{"Berg, Jan van der", "Jan van der Berg", true},
		{"BERG, JAN VAN DER", "Jan van der Berg", true},

		// Surname-first capitals.
		{"SMITH John", "John Smith", true},
		{"DE LA CRUZ Juan Carlos", "Juan Carlos de la Cruz", true},

		// Given-first with trailing capital surname.
		{"John A. SMITH", "John A. Smith", true},
		{"Maria GARCIA LOPEZ", "Maria Garcia Lopez", true},

		// No rule applies: unchanged, flagged.
		{"John Smith", "John Smith", false},
		{"Madonna", "Madonna", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.span, func(t *testing.T) {
			got, ok := n.Normalize(tt.span)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)",
					tt.span, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer()

	spans := []string{
		"SMITH, John",
		"SMITH, JOHN",
		"GARCIA, MARIA ELENA",
		"John A. SMITH",
		"DE LA CRUZ Juan Carlos",
		"Berg, Jan van der",
		"John Smith",
		"Ministry of Environment",
	}

	for _, span := range spans {
		once, _ := n.Normalize(span)
		twice, _ := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", span, once, twice)
		}
	}
}

func TestNormalizePreservesDiacritics(t *testing.T) {
	n := NewNormalizer()

	got, ok := n.Normalize("MÜLLER, Jürgen")
	if !ok || got != "Jürgen Müller" {
		t.Errorf("Normalize = (%q, %v), want (\"Jürgen Müller\", true)", got, ok)
	}
}
