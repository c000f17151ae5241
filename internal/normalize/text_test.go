package normalize

import "testing"

func TestDescriptionStripsPromoLines(t *testing.T) {
	raw := "Great video about cats.\nSubscribe to our channel for more videos!\nFollow us on Instagram and Twitter.\n#cats #funny\nUse code SAVE10 for 10% off your order.\nAs an Amazon Associate I earn from qualifying purchases.\nThanks for watching."
	got := Description(raw)

	want := "Great video about cats.\nThanks for watching."
	if got != want {
		t.Fatalf("Description() = %q, want %q", got, want)
	}
}

func TestDescriptionPreservesURLs(t *testing.T) {
	raw := "Check this out: https://example.com/subscribe-now"
	got := Description(raw)
	if got != raw {
		t.Fatalf("expected URL-bearing line preserved, got %q", got)
	}
}

func TestDescriptionDropsStandaloneEmojiLines(t *testing.T) {
	raw := "Intro text\n🎉🎉🎉\nMore text"
	got := Description(raw)
	want := "Intro text\nMore text"
	if got != want {
		t.Fatalf("Description() = %q, want %q", got, want)
	}
}

func TestDescriptionStripsControlCharacters(t *testing.T) {
	raw := "hello" + "​" + "world" + "\x00" + "!"
	got := Description(raw)
	if got != "helloworld!" {
		t.Fatalf("Description() = %q, want %q", got, "helloworld!")
	}
}

func TestDescriptionCollapsesWhitespace(t *testing.T) {
	raw := "too    many      spaces\n\n\n\nand blank lines"
	got := Description(raw)
	want := "too many spaces\n\nand blank lines"
	if got != want {
		t.Fatalf("Description() = %q, want %q", got, want)
	}
}

func TestTitleStripsTrailingHashtags(t *testing.T) {
	got := Title("My Cool Video #gaming #fun")
	if got != "My Cool Video" {
		t.Fatalf("Title() = %q, want %q", got, "My Cool Video")
	}
}

func TestTitleStripsChannelSuffix(t *testing.T) {
	got := Title("Episode 12: The Finale | My Channel")
	if got != "Episode 12: The Finale" {
		t.Fatalf("Title() = %q, want %q", got, "Episode 12: The Finale")
	}
}

func TestTitleUnquotes(t *testing.T) {
	cases := map[string]string{
		`"Quoted Title"`:   "Quoted Title",
		"'Quoted Title'":   "Quoted Title",
		"“Curly”": "Curly",
	}
	for in, want := range cases {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTitleLeavesPlainTitleAlone(t *testing.T) {
	got := Title("A perfectly normal title")
	if got != "A perfectly normal title" {
		t.Fatalf("Title() = %q, want unchanged", got)
	}
}
