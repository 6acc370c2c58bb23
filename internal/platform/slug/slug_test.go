package slug

import "testing"

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Manchester City":             "manchester-city",
		"  Brighton & Hove   Albion ": "brighton-hove-albion",
		"Paris Saint-Germain":         "paris-saint-germain",
		"Atlético Madrid":             "atlético-madrid",
		"الدوري الإسباني":             "الدوري-الإسباني",
		"":                            "",
		"---":                         "",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoin(t *testing.T) {
	got := Join("man-city", "vs", "arsenal", "", "en", "-1700-")
	if got != "man-city-vs-arsenal-en-1700" {
		t.Fatalf("unexpected join result: %s", got)
	}
}
