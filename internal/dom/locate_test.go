package dom

import (
	"errors"
	"testing"
)

func TestImagesMissingAlt(t *testing.T) {
	d := mustParse(t, `<html><body>
		<img src="a.png">
		<img src="b.png" alt="">
		<img src="c.png" alt="chart">
		<img src="d.png">
	</body></html>`)

	loc := d.ImagesMissingAlt()
	if loc.Count != 2 {
		t.Fatalf("Count = %d, want 2 (alt=\"\" must not count as missing)", loc.Count)
	}
	if loc.Path != "//body/img[1]" {
		t.Errorf("Path = %q, want first missing-alt image", loc.Path)
	}
	if loc.Selector != "img" {
		t.Errorf("Selector = %q, want %q", loc.Selector, "img")
	}
}

func TestImagesMissingAlt_NoneFound(t *testing.T) {
	d := mustParse(t, `<html><body><img src="a.png" alt="described"></body></html>`)

	loc := d.ImagesMissingAlt()
	if loc.Count != 0 {
		t.Fatalf("Count = %d, want 0", loc.Count)
	}
	if loc.Path != "//body" || loc.Selector != "body" {
		t.Errorf("expected root-scoped fallback, got %q / %q", loc.Path, loc.Selector)
	}
}

func TestUnlabeledInputs(t *testing.T) {
	d := mustParse(t, `<html><body><form>
		<label for="name">Name</label>
		<input type="text" id="name">
		<input type="email" id="mail">
		<input type="password" aria-label="Password">
		<input type="checkbox" id="agree">
		<input type="tel">
	</form></body></html>`)

	loc := d.UnlabeledInputs()
	if loc.Count != 2 {
		t.Fatalf("Count = %d, want 2 (email without label, bare tel)", loc.Count)
	}
	if loc.Selector != "#mail" {
		t.Errorf("Selector = %q, want %q", loc.Selector, "#mail")
	}
}

func TestUnlabeledInputs_UntypedInputIgnored(t *testing.T) {
	d := mustParse(t, `<html><body><form><input name="raw"></form></body></html>`)

	if loc := d.UnlabeledInputs(); loc.Count != 0 {
		t.Errorf("Count = %d, want 0 for input without a type attribute", loc.Count)
	}
}

func TestKeyboardInaccessible(t *testing.T) {
	d := mustParse(t, `<html><body>
		<a href="/home">Home</a>
		<a class="js-menu">Menu</a>
		<div tabindex="-1" id="trap">modal</div>
		<button tabindex="0">ok</button>
	</body></html>`)

	loc := d.KeyboardInaccessible()
	if loc.Count != 2 {
		t.Fatalf("Count = %d, want 2", loc.Count)
	}
	if loc.Selector != "a.js-menu" {
		t.Errorf("Selector = %q, want first match in document order", loc.Selector)
	}
}

func TestLocate_DirectReference(t *testing.T) {
	d := mustParse(t, `<html><body><div id="banner"><p>hi</p></div></body></html>`)

	loc, ok := d.Locate("#banner")
	if !ok {
		t.Fatal("expected #banner to resolve")
	}
	if loc.Path != "//body/div" || loc.Selector != "#banner" || loc.Count != 1 {
		t.Errorf("unexpected location: %+v", loc)
	}

	if _, ok := d.Locate("#missing"); ok {
		t.Error("expected unresolvable selector to report false")
	}
}

func TestRootBindings(t *testing.T) {
	d := mustParse(t, `<html><body></body></html>`)

	if loc := d.HTMLRoot(); loc.Path != "//html" || loc.Selector != "html" {
		t.Errorf("HTMLRoot = %+v", loc)
	}
	if loc := d.BodyRoot(); loc.Path != "//body" || loc.Selector != "body" {
		t.Errorf("BodyRoot = %+v", loc)
	}
}

func TestParse_ReaderError(t *testing.T) {
	if _, err := Parse(failingReader{}); err == nil {
		t.Error("expected error from failing reader")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}
