package htmltext_test

import (
	"strings"
	"testing"

	"aircheck/internal/htmltext"
)

func TestRenderKeepsLinkTargets(t *testing.T) {
	input := `Mehr dazu auf <a href="https://oe1.orf.at/programm">Ö1 Programm</a>.`
	got := htmltext.Render(input)
	want := "Mehr dazu auf Ö1 Programm (https://oe1.orf.at/programm)."
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestRenderTextDropsLinkTargets(t *testing.T) {
	input := `Mehr dazu auf <a href="https://oe1.orf.at/programm">Ö1 Programm</a>.`
	got := htmltext.RenderText(input)
	want := "Mehr dazu auf Ö1 Programm."
	if got != want {
		t.Fatalf("RenderText = %q, want %q", got, want)
	}
}

func TestRenderDecodesEntities(t *testing.T) {
	got := htmltext.RenderText("N&auml;heres &amp; Details &ndash; heute")
	want := "Näheres & Details – heute"
	if got != want {
		t.Fatalf("RenderText = %q, want %q", got, want)
	}
}

func TestRenderSeparatesParagraphs(t *testing.T) {
	got := htmltext.RenderText("<p>Erster Absatz</p><p>Zweiter Absatz</p>")
	want := "Erster Absatz\n\nZweiter Absatz"
	if got != want {
		t.Fatalf("RenderText = %q, want %q", got, want)
	}
}

func TestRenderHandlesLineBreaksAndEmphasis(t *testing.T) {
	got := htmltext.RenderText("Zeile eins<br>Zeile <em>zwei</em>")
	want := "Zeile eins\nZeile zwei"
	if got != want {
		t.Fatalf("RenderText = %q, want %q", got, want)
	}
}

func TestRenderListItems(t *testing.T) {
	got := htmltext.RenderText("<ul><li>Anton</li><li>Berta</li></ul>")
	want := "- Anton\n\n- Berta"
	if got != want {
		t.Fatalf("RenderText = %q, want %q", got, want)
	}
}

func TestRenderSkipsScriptAndStyle(t *testing.T) {
	got := htmltext.RenderText(`<p>sichtbar</p><script>alert("nein")</script><style>p{}</style>`)
	if got != "sichtbar" {
		t.Fatalf("RenderText = %q, want %q", got, "sichtbar")
	}
}

func TestRenderBareURLNotDuplicated(t *testing.T) {
	got := htmltext.Render(`<a href="https://oe1.orf.at">https://oe1.orf.at</a>`)
	if got != "https://oe1.orf.at" {
		t.Fatalf("Render = %q, want the URL once", got)
	}
}

func TestRenderPlainTextPassesThrough(t *testing.T) {
	got := htmltext.RenderText("Schon  reiner \n Text")
	if strings.Contains(got, "  ") {
		t.Fatalf("expected collapsed spaces, got %q", got)
	}
}

func TestRenderEmptyInput(t *testing.T) {
	if got := htmltext.Render("   "); got != "" {
		t.Fatalf("Render of blank input = %q, want empty", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	input := `<p>Das <b>Morgenjournal</b> mit <a href="https://orf.at">Nachrichten</a> &amp; Wetter.</p>`
	first := htmltext.Render(input)
	for i := 0; i < 5; i++ {
		if got := htmltext.Render(input); got != first {
			t.Fatalf("rendering not deterministic: %q vs %q", got, first)
		}
	}
}
