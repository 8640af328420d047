package library

import (
	"errors"
	"testing"
)

const markTwainContent = "[Mark Twain](https://www.goodreads.com/search?utf8=%E2%9C%93&q=Mark+Twain" +
	"&search_type=books&search%5Bfield%5D=author)\n\n#book/author\n"

func TestAuthorRender(t *testing.T) {
	t.Parallel()

	lib := detachedLibrary(t)
	author := NewAuthorFile(lib, "", "Mark Twain")

	name, err := author.FileName()
	if err != nil {
		t.Fatal(err)
	}

	if name != "Mark Twain.md" {
		t.Errorf("FileName = %q, want %q", name, "Mark Twain.md")
	}

	content, err := author.Content()
	if err != nil {
		t.Fatal(err)
	}

	if content != markTwainContent {
		t.Errorf("Content = %q, want %q", content, markTwainContent)
	}

	link, err := author.FileLink()
	if err != nil {
		t.Fatal(err)
	}

	if link != "Mark Twain" {
		t.Errorf("FileLink = %q, want %q", link, "Mark Twain")
	}
}

func TestAuthorRoundTrip(t *testing.T) {
	t.Parallel()

	lib := detachedLibrary(t)
	author := NewAuthorFile(lib, "", "Mark Twain")

	name, err := author.FileName()
	if err != nil {
		t.Fatal(err)
	}

	content, err := author.Content()
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseAuthorFile(lib, "", name, content)
	if err != nil {
		t.Fatal(err)
	}

	if parsed.Name() != "Mark Twain" {
		t.Errorf("parsed name = %q, want %q", parsed.Name(), "Mark Twain")
	}

	if len(parsed.Names()) != 1 {
		t.Errorf("parsed aliases = %v, want one", parsed.Names())
	}
}

func TestParseAuthorFileAliases(t *testing.T) {
	t.Parallel()

	lib := detachedLibrary(t)

	content := "[Mark Twain](https://www.goodreads.com/search?utf8=%E2%9C%93&q=Mark+Twain&search_type=books&search%5Bfield%5D=author)\n" +
		"[Samuel Clemens](https://www.goodreads.com/search?utf8=%E2%9C%93&q=Samuel+Clemens&search_type=books&search%5Bfield%5D=author)\n" +
		"\n#book/author\n"

	author, err := ParseAuthorFile(lib, "", "Mark Twain.md", content)
	if err != nil {
		t.Fatal(err)
	}

	// The first alias in the note is canonical, regardless of file name.
	if author.Name() != "Mark Twain" {
		t.Errorf("canonical name = %q, want %q", author.Name(), "Mark Twain")
	}

	if len(author.Names()) != 2 || author.Names()[1] != "Samuel Clemens" {
		t.Errorf("aliases = %v", author.Names())
	}
}

func TestParseAuthorFileNoLink(t *testing.T) {
	t.Parallel()

	lib := detachedLibrary(t)

	_, err := ParseAuthorFile(lib, "", "notes.md", "no author link in here\n")
	if !errors.Is(err, ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestAuthorEqual(t *testing.T) {
	t.Parallel()

	lib := detachedLibrary(t)

	a := NewAuthorFile(lib, "", "Mark Twain")
	b := NewAuthorFile(lib, "", "Mark Twain")

	for _, author := range []*AuthorFile{a, b} {
		if _, err := author.FileName(); err != nil {
			t.Fatal(err)
		}

		if _, err := author.Content(); err != nil {
			t.Fatal(err)
		}
	}

	if !a.Equal(b) {
		t.Error("authors rendered from the same fields must be equal")
	}

	// Free-text edits break equality even though identity fields match.
	content, _ := b.Content()
	if err := b.SetContent(content + "extra note\n"); err != nil {
		t.Fatal(err)
	}

	if a.Equal(b) {
		t.Error("authors with different content must not be equal")
	}
}
