package query

import (
	"reflect"
	"testing"

	"genedata/internal/store"
)

func testStore() *store.Store {
	return store.New(
		store.Record{Protein: "P1", Organism: "Org1", Sequence: "AAACC"},
		store.Record{Protein: "P2", Organism: "Org2", Sequence: "AAACC"},
		store.Record{Protein: "P3", Organism: "Org3", Sequence: "AACD"},
		store.Record{Protein: "P4", Organism: "Org4", Sequence: "ACAC"},
		store.Record{Protein: "P5", Organism: "Org5", Sequence: "AC"},
		store.Record{Protein: "P6", Organism: "Org6", Sequence: "ACDE"},
		store.Record{Protein: "P1", Organism: "Dup", Sequence: "WWWW"},
	)
}

func TestSearch(t *testing.T) {
	st := testStore()

	got, ok := Search(st, "3A")
	want := []Match{{"Org1", "P1"}, {"Org2", "P2"}}
	if !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v (ok=%v)", want, got, ok)
	}

	if _, ok := Search(st, "2Y"); ok {
		t.Fatalf("expected NOT FOUND for YY")
	}

	// the whole encoded sequence of a record finds that record
	got, ok = Search(st, "3A2C")
	if !ok || got[0] != (Match{"Org1", "P1"}) {
		t.Fatalf("expected P1 for its own sequence, got %v", got)
	}

	// decoded but not validated
	if _, ok := Search(st, "a"); ok {
		t.Fatalf("expected case-sensitive search")
	}
}

func TestDiff(t *testing.T) {
	st := testStore()
	cases := []struct {
		a, b    string
		count   int
		missing []string
	}{
		{"P1", "P1", 0, nil},
		{"P5", "P6", 2, nil},
		{"P6", "P5", 2, nil},
		{"P1", "P3", 3, nil},
		{"P3", "P4", 3, nil},
		{"X", "P1", 0, []string{"X"}},
		{"P1", "Y", 0, []string{"Y"}},
		{"X", "Y", 0, []string{"X", "Y"}},
		{"X", "X", 0, []string{"X", "X"}},
	}
	for _, c := range cases {
		got := Diff(st, c.a, c.b)
		if got.Count != c.count || !reflect.DeepEqual(got.Missing, c.missing) {
			t.Fatalf("Diff(%s, %s): expected {%d %v}, got %+v", c.a, c.b, c.count, c.missing, got)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{{"", ""}, {"", "ACD"}, {"AC", "ACDE"}, {"WYV", "VYW"}, {"A", "C"}}
	for _, p := range pairs {
		if Distance(p[0], p[1]) != Distance(p[1], p[0]) {
			t.Fatalf("Distance not symmetric for %q, %q", p[0], p[1])
		}
	}
	if got := Distance("", "ACD"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMode(t *testing.T) {
	st := store.New(
		store.Record{Protein: "a", Sequence: "AACB"},
		store.Record{Protein: "b", Sequence: "ABAB"},
		store.Record{Protein: "c", Sequence: "WYYW"},
		store.Record{Protein: "empty", Sequence: ""},
	)
	cases := []struct {
		name string
		want ModeResult
	}{
		{"a", ModeResult{Symbol: 'A', Count: 2}},
		{"b", ModeResult{Symbol: 'A', Count: 2}},
		{"c", ModeResult{Symbol: 'W', Count: 2}},
		{"empty", ModeResult{Status: ModeEmpty}},
		{"nope", ModeResult{Status: ModeMissing}},
	}
	for _, c := range cases {
		if got := Mode(st, c.name); got != c.want {
			t.Fatalf("Mode(%s): expected %+v, got %+v", c.name, c.want, got)
		}
	}
}

func TestCompositionAgreesWithMostFrequent(t *testing.T) {
	seq := "MKVLAAGIVALLLAAGCSS"
	comp := Composition(seq)
	sym, n := MostFrequent(seq)
	if comp[0].Symbol != sym || comp[0].Count != n {
		t.Fatalf("expected first row %c %d, got %c %d", sym, n, comp[0].Symbol, comp[0].Count)
	}
	total := 0
	for _, row := range comp {
		total += row.Count
	}
	if total != len(seq) {
		t.Fatalf("expected counts to sum to %d, got %d", len(seq), total)
	}
	if len(Composition("")) != 0 {
		t.Fatalf("expected empty composition")
	}
}
