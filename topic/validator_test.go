package topic

import "testing"

func TestParseNameRejectsWildcards(t *testing.T) {
	for _, s := range []string{"a/+/b", "a/#", "+", "#"} {
		if _, err := ParseName(s); err == nil {
			t.Errorf("ParseName(%q): want error, got nil", s)
		}
	}
}

func TestParseNameRoundTrip(t *testing.T) {
	n, err := ParseName("sport/tennis/player1")
	if err != nil {
		t.Fatalf("ParseName: %v", err)
	}
	if got, want := n.String(), "sport/tennis/player1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := n.Levels(), []string{"sport", "tennis", "player1"}; !equalStrings(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestParseNameRejectsEmpty(t *testing.T) {
	if _, err := ParseName(""); err == nil {
		t.Error("ParseName(\"\"): want error, got nil")
	}
}

func TestParseFilterWildcardPlacement(t *testing.T) {
	cases := []struct {
		filter string
		ok     bool
	}{
		{"sport/tennis/#", true},
		{"sport/tennis/+", true},
		{"+/+/+", true},
		{"#", true},
		{"sport/tennis#", false},
		{"sport/tennis/#/extra", false},
		{"sport+/tennis", false},
	}
	for _, c := range cases {
		_, err := ParseFilter(c.filter)
		if c.ok && err != nil {
			t.Errorf("ParseFilter(%q): unexpected error %v", c.filter, err)
		}
		if !c.ok && err == nil {
			t.Errorf("ParseFilter(%q): want error, got nil", c.filter)
		}
	}
}

func TestParseFilterSharedSubscription(t *testing.T) {
	f, err := ParseFilter("$share/group1/sport/tennis/+")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	group, plain, ok := f.Shared()
	if !ok {
		t.Fatal("Shared() ok = false, want true")
	}
	if group != "group1" {
		t.Errorf("group = %q, want %q", group, "group1")
	}
	if plain != "sport/tennis/+" {
		t.Errorf("plain = %q, want %q", plain, "sport/tennis/+")
	}
}

func TestParseFilterSharedSubscriptionMissingGroup(t *testing.T) {
	if _, err := ParseFilter("$share//sport/tennis"); err == nil {
		t.Error("want error for missing group name")
	}
	if _, err := ParseFilter("$share/group1"); err == nil {
		t.Error("want error for missing topic filter")
	}
}

func TestFilterMatches(t *testing.T) {
	cases := []struct {
		filter string
		name   string
		want   bool
	}{
		{"sport/tennis/player1/#", "sport/tennis/player1", true},
		{"sport/tennis/player1/#", "sport/tennis/player1/ranking", true},
		{"sport/#", "sport", true},
		{"sport/+", "sport/tennis", true},
		{"sport/+", "sport/tennis/ranking", false},
		{"+/+", "sport/tennis", true},
		{"+", "sport/tennis", false},
		{"#", "$SYS/stats", false},
		{"$SYS/+", "$SYS/stats", true},
	}
	for _, c := range cases {
		f, err := ParseFilter(c.filter)
		if err != nil {
			t.Fatalf("ParseFilter(%q): %v", c.filter, err)
		}
		n, err := ParseName(c.name)
		if err != nil {
			t.Fatalf("ParseName(%q): %v", c.name, err)
		}
		if got := f.Matches(n); got != c.want {
			t.Errorf("Filter(%q).Matches(%q) = %v, want %v", c.filter, c.name, got, c.want)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
