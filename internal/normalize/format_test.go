package normalize

import (
	"strings"
	"testing"
)

func TestFormatContentEmoji(t *testing.T) {
	got := FormatContent("price up <:rocket:12345>")
	want := `price up <img src="https://cdn.discordapp.com/emojis/12345.png" alt="rocket" style="width:20px;height:20px;vertical-align:middle;" />`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatContentBold(t *testing.T) {
	got := FormatContent("**BUY** now, **sell** later")
	want := "<strong>BUY</strong> now, <strong>sell</strong> later"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatContentRelativeTimestamp(t *testing.T) {
	got := FormatContent("restock <t:1700000000:R>")
	if strings.Contains(got, "<t:") {
		t.Fatalf("timestamp tag not rewritten: %q", got)
	}
	if !strings.HasPrefix(got, "restock ") {
		t.Fatalf("surrounding text lost: %q", got)
	}
}

func TestFormatContentLeavesPlainTextAlone(t *testing.T) {
	in := "nothing special here"
	if got := FormatContent(in); got != in {
		t.Fatalf("expected %q unchanged, got %q", in, got)
	}
}

func TestFlattenEmbed(t *testing.T) {
	got := FlattenEmbed("Stock Alert", "Fresh stock", [][2]string{
		{"Item", "Sunflower"},
		{"Qty", "3"},
	})
	want := "Stock Alert\nFresh stock\nItem: Sunflower\nQty: 3"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFlattenEmbedNoTitle(t *testing.T) {
	got := FlattenEmbed("", "desc only", nil)
	if got != "desc only" {
		t.Fatalf("expected %q, got %q", "desc only", got)
	}
}
