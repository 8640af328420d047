package library

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const vernBookContent = "[[Jules Verne]]: [Around the World in Eighty Days](https://www.goodreads.com/book/show/54479)\n" +
	"ISBN0140449060 (ISBN139780140449068)\n" +
	"[[Jules Verne - Voyages extraordinaires - series]]\n" +
	"#book/book #book/rating5\n" +
	"\n" +
	"A fine adventure\n"

func vernBook(lib *Library, folder string) *BookFile {
	return NewBookFile(lib, folder, NewAuthorFile(lib, "", "Jules Verne"), BookFields{
		Title:        "Around the World in Eighty Days",
		BookID:       "54479",
		Rating:       5,
		ISBN:         "0140449060",
		ISBN13:       "9780140449068",
		Review:       "A fine adventure",
		SeriesTitles: []string{"Voyages extraordinaires"},
	})
}

func TestBookRender(t *testing.T) {
	t.Parallel()

	lib := detachedLibrary(t)
	book := vernBook(lib, "")

	name, err := book.FileName()
	if err != nil {
		t.Fatal(err)
	}

	if want := "Jules Verne - Around the World in Eighty Days.md"; name != want {
		t.Errorf("FileName = %q, want %q", name, want)
	}

	content, err := book.Content()
	if err != nil {
		t.Fatal(err)
	}

	if content != vernBookContent {
		t.Errorf("Content = %q, want %q", content, vernBookContent)
	}
}

func TestBookRoundTrip(t *testing.T) {
	t.Parallel()

	lib := detachedLibrary(t)
	book := vernBook(lib, "")

	name, err := book.FileName()
	if err != nil {
		t.Fatal(err)
	}

	content, err := book.Content()
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseBookFile(lib, "", name, content)
	if err != nil {
		t.Fatal(err)
	}

	if parsed.BookID != "54479" {
		t.Errorf("BookID = %q", parsed.BookID)
	}

	if parsed.Title != "Around the World in Eighty Days" {
		t.Errorf("Title = %q", parsed.Title)
	}

	if parsed.Author.Name() != "Jules Verne" {
		t.Errorf("Author = %q", parsed.Author.Name())
	}

	if diff := cmp.Diff([]string{"Voyages extraordinaires"}, parsed.SeriesTitles); diff != "" {
		t.Errorf("SeriesTitles mismatch (-want +got):\n%s", diff)
	}
}

func TestBookRenderTagsIdempotent(t *testing.T) {
	t.Parallel()

	lib := detachedLibrary(t)
	book := NewBookFile(lib, "", NewAuthorFile(lib, "", "Jules Verne"), BookFields{
		Title:  "The Mysterious Island",
		BookID: "32831",
		Rating: 4,
		Tags:   []string{"#book/book", "#book/rating4", "#book/fiction"},
	})

	content, err := book.Content()
	if err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(content, "#book/book"); got != 1 {
		t.Errorf("marker tag appears %d times, want 1", got)
	}

	if got := strings.Count(content, "#book/rating4"); got != 1 {
		t.Errorf("rating tag appears %d times, want 1", got)
	}
}

func TestParseBookFileNoLink(t *testing.T) {
	t.Parallel()

	lib := detachedLibrary(t)

	_, err := ParseBookFile(lib, "", "notes.md", "nothing resembling a book\n")
	if !errors.Is(err, ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestBookWriteAppendsIDOnCollision(t *testing.T) {
	t.Parallel()

	lib := testLibrary(t)
	folder := filepath.Join(lib.Folder(), ReviewsSubfolder)

	first := NewBookFile(lib, folder, NewAuthorFile(lib, "", "Jules Verne"), BookFields{
		Title: "Collected Stories", BookID: "1",
	})
	if err := first.Write(); err != nil {
		t.Fatal(err)
	}

	second := NewBookFile(lib, folder, NewAuthorFile(lib, "", "Jules Verne"), BookFields{
		Title: "Collected Stories", BookID: "2",
	})
	if err := second.Write(); err != nil {
		t.Fatal(err)
	}

	name, err := second.FileName()
	if err != nil {
		t.Fatal(err)
	}

	if want := "Jules Verne - Collected Stories - 2.md"; name != want {
		t.Errorf("second book file name = %q, want %q", name, want)
	}

	// Re-writing the same book must not grow the name again.
	if err := second.Write(); err != nil {
		t.Fatal(err)
	}

	name, _ = second.FileName()
	if want := "Jules Verne - Collected Stories - 2.md"; name != want {
		t.Errorf("file name after rewrite = %q, want %q", name, want)
	}
}

func TestBookCreateAndDeleteSeriesFiles(t *testing.T) {
	t.Parallel()

	lib := testLibrary(t)
	folder := filepath.Join(lib.Folder(), ReviewsSubfolder)
	book := vernBook(lib, folder)

	created, err := book.CreateSeriesFiles()
	if err != nil {
		t.Fatal(err)
	}

	if len(created) != 1 {
		t.Fatalf("created = %v, want one series file", created)
	}

	if !noteExists(lib, ReviewsSubfolder, "Jules Verne - Voyages extraordinaires - series.md") {
		t.Error("series note missing")
	}

	// Existing series files are left alone.
	created, err = book.CreateSeriesFiles()
	if err != nil {
		t.Fatal(err)
	}

	if len(created) != 0 {
		t.Errorf("second create reported %v, want none", created)
	}

	deleted, err := book.DeleteSeriesFiles()
	if err != nil {
		t.Fatal(err)
	}

	if len(deleted) != 1 {
		t.Errorf("deleted = %v, want one series file", deleted)
	}

	if noteExists(lib, ReviewsSubfolder, "Jules Verne - Voyages extraordinaires - series.md") {
		t.Error("series note still present after delete")
	}
}

func TestBookRenameAuthorCascade(t *testing.T) {
	t.Parallel()

	lib := testLibrary(t)
	folder := filepath.Join(lib.Folder(), ReviewsSubfolder)
	book := vernBook(lib, folder)

	if _, err := book.CreateSeriesFiles(); err != nil {
		t.Fatal(err)
	}

	if err := book.Write(); err != nil {
		t.Fatal(err)
	}

	// A free-text edit outside the templated parts must survive the rename.
	content, err := book.Content()
	if err != nil {
		t.Fatal(err)
	}

	if err := book.SetContent(content + "my private margin note\n"); err != nil {
		t.Fatal(err)
	}

	if err := book.Write(); err != nil {
		t.Fatal(err)
	}

	deleted, created, err := book.RenameAuthor("Verne Jules")
	if err != nil {
		t.Fatal(err)
	}

	if len(deleted) != 1 || len(created) != 1 {
		t.Errorf("deleted %v, created %v, want one each", deleted, created)
	}

	if noteExists(lib, ReviewsSubfolder, "Jules Verne - Around the World in Eighty Days.md") {
		t.Error("old book note still present")
	}

	if noteExists(lib, ReviewsSubfolder, "Jules Verne - Voyages extraordinaires - series.md") {
		t.Error("old series note still present")
	}

	newName := "Verne Jules - Around the World in Eighty Days.md"
	if !noteExists(lib, ReviewsSubfolder, newName) {
		t.Fatal("renamed book note missing")
	}

	if !noteExists(lib, ReviewsSubfolder, "Verne Jules - Voyages extraordinaires - series.md") {
		t.Error("renamed series note missing")
	}

	raw, err := os.ReadFile(filepath.Join(folder, newName))
	if err != nil {
		t.Fatal(err)
	}

	got := string(raw)

	if !strings.Contains(got, "[[Verne Jules]]:") {
		t.Error("author link not rewritten")
	}

	if strings.Contains(got, "[[Jules Verne]]") {
		t.Error("old author link still present")
	}

	if !strings.Contains(got, "[[Verne Jules - Voyages extraordinaires - series]]") {
		t.Error("series link not rewritten")
	}

	if !strings.Contains(got, "my private margin note") {
		t.Error("free-text edit lost")
	}

	if book.Author.Name() != "Verne Jules" {
		t.Errorf("Author = %q after rename", book.Author.Name())
	}
}
