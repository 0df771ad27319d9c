package loader

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := New(nil).Open("roster.docx")
	if !errors.Is(err, ErrDocumentUnreadable) {
		t.Fatalf("err = %v, want ErrDocumentUnreadable", err)
	}
}

func TestTokensFromTexts(t *testing.T) {
	glyph := func(s string, x, y, w float64) pdf.Text {
		return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: 10, Font: "Helvetica-Bold"}
	}

	texts := []pdf.Text{
		// "FR" then "ANCE" far left-to-right gap: one word each row run.
		glyph("F", 100, 700, 6),
		glyph("R", 106, 700, 6),
		glyph("M", 130, 700, 8),
		// Next row.
		glyph("x", 100, 680, 5),
		// Whitespace-only glyphs are dropped.
		{S: " ", X: 200, Y: 700, W: 3, FontSize: 10},
		// Hidden text with a zero-width box is dropped too.
		glyph("h", 300, 680, 0),
	}

	tokens := tokensFromTexts(texts, 792)

	if len(tokens) != 3 {
		t.Fatalf("tokens = %d, want 3", len(tokens))
	}
	if tokens[0].Text != "FR" {
		t.Errorf("token 0 = %q, want FR", tokens[0].Text)
	}
	if tokens[1].Text != "M" || tokens[2].Text != "x" {
		t.Errorf("tokens = %q, %q", tokens[1].Text, tokens[2].Text)
	}

	// Coordinate flip: PDF y=700 with a 10pt font lands at top 82 on a
	// 792pt page.
	if got := tokens[0].BBox.Y; got != 82 {
		t.Errorf("token 0 top = %v, want 82", got)
	}
	if tokens[0].BBox.Width != 12 {
		t.Errorf("token 0 width = %v, want 12", tokens[0].BBox.Width)
	}
	if !tokens[0].Bold {
		t.Error("Helvetica-Bold glyphs must produce a bold token")
	}

	// Rows come out top to bottom in the flipped system.
	if tokens[2].BBox.Y <= tokens[0].BBox.Y {
		t.Errorf("lower row top = %v, want greater than %v", tokens[2].BBox.Y, tokens[0].BBox.Y)
	}
}

func TestLoadHTML(t *testing.T) {
	const doc = `<html><body>
<h2>BELGIUM</h2>
<p><u>Observers</u></p>
<p>Mr. John <b>SMITH</b><br>Ministry of Environment</p>
</body></html>`

	path := filepath.Join(t.TempDir(), "roster.html")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := New(nil).Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(got.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(got.Pages))
	}
	if got.Meta.Source != "roster.html" {
		t.Errorf("Source = %q", got.Meta.Source)
	}

	page := got.Pages[0]
	byText := map[string]int{}
	for i, tok := range page.Tokens {
		byText[tok.Text] = i
	}

	for _, want := range []string{"BELGIUM", "Observers", "Mr.", "SMITH", "Ministry"} {
		if _, ok := byText[want]; !ok {
			t.Fatalf("token %q missing; have %d tokens", want, len(page.Tokens))
		}
	}
	if !page.Tokens[byText["BELGIUM"]].Bold {
		t.Error("heading token must be bold")
	}
	if !page.Tokens[byText["Observers"]].Underlined {
		t.Error("<u> token must be underlined")
	}
	if !page.Tokens[byText["SMITH"]].Bold {
		t.Error("<b> token must be bold")
	}
	if page.Tokens[byText["Mr."]].Bold {
		t.Error("plain text must not be bold")
	}

	// <br> breaks the line: the affiliation sits below the name.
	if page.Tokens[byText["Ministry"]].BBox.Y <= page.Tokens[byText["Mr."]].BBox.Y {
		t.Error("line break did not advance the y cursor")
	}
}

func TestLoadImage(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewGray(image.Rect(0, 0, 40, 30))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := New(nil).Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	page := got.Pages[0]
	if !page.Scanned {
		t.Error("image page must be marked scanned")
	}
	if page.Width != 40 || page.Height != 30 {
		t.Errorf("dimensions = %vx%v, want 40x30", page.Width, page.Height)
	}
	if len(page.Image) == 0 {
		t.Error("raw bytes must be kept for the recognizer")
	}
	if len(page.Tokens) != 0 {
		t.Error("scan has no text layer")
	}
}

func TestLoadPDFMissingFile(t *testing.T) {
	_, err := New(nil).Open(filepath.Join(t.TempDir(), "absent.pdf"))
	if !errors.Is(err, ErrDocumentUnreadable) {
		t.Fatalf("err = %v, want ErrDocumentUnreadable", err)
	}
	if !strings.Contains(err.Error(), "absent.pdf") {
		t.Errorf("error should name the file: %v", err)
	}
}
