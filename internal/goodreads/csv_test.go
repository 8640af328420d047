package goodreads

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const exportHeader = "Book Id,Title,Author,ISBN,My Rating,Bookshelves,ISBN13,My Review\n"

func TestParseExport(t *testing.T) {
	t.Parallel()

	csv := exportHeader +
		`54479,"Around the World in Eighty Days (Voyages extraordinaires, #11)",Jules Verne,"=""0140449060""",5,"fiction, classics","=""9780140449068""","<b>Bold</b> start"` + "\n" +
		`32831,The Mysterious Island,Jules Verne,"=""""",0,to-read,"=""""",` + "\n"

	books, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, books, 2)

	first := books[0]
	require.Equal(t, "54479", first.BookID)
	// The title keeps its series parenthetical; only the series list is
	// extracted from it.
	require.Equal(t, "Around the World in Eighty Days (Voyages extraordinaires, #11)", first.Title)
	require.Equal(t, "Jules Verne", first.Author)
	require.Equal(t, 5, first.Rating)
	require.Equal(t, "0140449060", first.ISBN)
	require.Equal(t, "9780140449068", first.ISBN13)
	require.Equal(t, []string{"Voyages extraordinaires"}, first.Series)
	require.Equal(t, []string{"fiction", "classics"}, first.Shelves)
	require.Contains(t, first.Review, "**Bold**")

	second := books[1]
	require.Equal(t, "32831", second.BookID)
	require.Equal(t, 0, second.Rating)
	require.Empty(t, second.Review)
	require.Empty(t, second.ISBN)
	require.Equal(t, []string{"to-read"}, second.Shelves)
	require.Empty(t, second.Series)
}

func TestParseMissingColumns(t *testing.T) {
	t.Parallel()

	csv := "Book Id,Title,Author\n1,T,A\n"

	_, err := Parse(strings.NewReader(csv))
	require.ErrorIs(t, err, ErrFormat)
	// The error names every missing column.
	for _, col := range []string{"ISBN", "ISBN13", "My Rating", "My Review", "Bookshelves"} {
		require.Contains(t, err.Error(), col)
	}
}

func TestParseBadRating(t *testing.T) {
	t.Parallel()

	csv := exportHeader + `1,T,A,"=""""",five,,"=""""",` + "\n"

	_, err := Parse(strings.NewReader(csv))
	require.Error(t, err)
	require.Contains(t, err.Error(), "rating")
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader(""))
	require.ErrorIs(t, err, ErrFormat)
}

func TestBookTags(t *testing.T) {
	t.Parallel()

	book := Book{Shelves: []string{"fiction", "sci-fi"}}

	got := book.Tags()
	want := []string{"#book/fiction", "#book/sci-fi"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSeriesFromTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{"no parenthetical", "Plain Title", nil},
		{"parenthetical without series", "Title (illustrated)", nil},
		{"single series", "Hogfather (Discworld, #20)", []string{"Discworld"}},
		{
			"multiple series",
			"Hogfather (Discworld, #20; Death, #4)",
			[]string{"Discworld", "Death"},
		},
		{"range position not a series entry", "Omnibus (Saga, #1-3)", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseSeries(tt.title)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseSeries(%q) mismatch (-want +got):\n%s", tt.title, diff)
			}
		})
	}
}
