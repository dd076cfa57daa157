package patterns

import "testing"

func TestIsDisinterested(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want bool
	}{
		{"I'm not interested anymore", true},
		{"please STOP", true},
		{"goodbye", true},
		{"I want to quit", true},
		{"I enjoy writing Go", false},
		{"no", false},
		{"not sure about that", false},
	}

	for _, tc := range cases {
		if got := IsDisinterested(tc.text); got != tc.want {
			t.Errorf("IsDisinterested(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestIsRoleDisinterested(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want bool
	}{
		{"no", true},
		{"none of those", true},
		{"neither", true},
		{"not for me, thanks", true},
		{"not sure", false},
		{"i don't know yet", false},
		{"backend please", false},
	}

	for _, tc := range cases {
		if got := IsRoleDisinterested(tc.text); got != tc.want {
			t.Errorf("IsRoleDisinterested(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestHasNoReactExperience(t *testing.T) {
	t.Parallel()

	if !HasNoReactExperience("I have no experience with React at all") {
		t.Fatalf("expected react-specific phrase to match")
	}

	if HasNoReactExperience("I have no experience with Vue") {
		t.Fatalf("expected non-react phrase not to match")
	}
}

func TestIsVagueRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want bool
	}{
		{"developer", true},
		{"I want to be a software engineer", true},
		{"dev", true},
		{"backend developer", false},
		{"frontend", false},
		{"full stack engineer", false},
	}

	for _, tc := range cases {
		if got := IsVagueRole(tc.text); got != tc.want {
			t.Errorf("IsVagueRole(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestYesNoPolarity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want bool
	}{
		{"yes", true},
		{"yeah definitely", true},
		{"no", false},
		{"no, not really", false},
		{"I guess so", true},              // no hits either side, no negation substring
		{"it was nothing special", false}, // zero counts but contains "no"
		{"yes but not that one", false},   // one hit each side resolves to no
	}

	for _, tc := range cases {
		if got := YesNoPolarity(tc.text); got != tc.want {
			t.Errorf("YesNoPolarity(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestExtractSalary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"$85k", 85000, true},
		{"90000", 90000, true},
		{"I'd like $1,200,000 please", 1200000, true},
		{"around 95K", 95000, true},
		{"a competitive salary", 0, false},
	}

	for _, tc := range cases {
		got, ok := ExtractSalary(tc.text)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ExtractSalary(%q) = %v, %v, want %v, %v", tc.text, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestExtractRating(t *testing.T) {
	t.Parallel()

	if got, ok := ExtractRating("I'd say 7 out of 10"); !ok || got != 7 {
		t.Fatalf("ExtractRating = %v, %v, want 7, true", got, ok)
	}

	if _, ok := ExtractRating("pretty good"); ok {
		t.Fatalf("expected no rating in non-numeric answer")
	}
}

func TestIsShortOrVague(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want bool
	}{
		{"ok", true},
		{"maybe", true},
		{"yes", true},
		{"single", true},
		{"I profile with pprof and read the traces", false},
	}

	for _, tc := range cases {
		if got := IsShortOrVague(tc.text); got != tc.want {
			t.Errorf("IsShortOrVague(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestExtractName(t *testing.T) {
	t.Parallel()

	if got := ExtractName("my name is Alice"); got != "Alice" {
		t.Fatalf("ExtractName = %q, want Alice", got)
	}

	if got := ExtractName("Bob"); got != "Bob" {
		t.Fatalf("ExtractName = %q, want Bob", got)
	}
}
