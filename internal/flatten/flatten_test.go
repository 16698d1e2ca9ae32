package flatten

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/microcopy/api"
	"github.com/agentic-research/microcopy/internal/graph"
	"github.com/agentic-research/microcopy/internal/richtext"
)

func TestFallbackMap(t *testing.T) {
	got := FallbackMap([]graph.Locale{
		{Code: "en-US"},
		{Code: "de-DE", FallbackCode: "en-US"},
		{Code: "de-AT", FallbackCode: "de-DE"},
		{FallbackCode: "en-US"},
	})
	assert.Equal(t, map[string]string{
		"en-US": "en-US",
		"de-DE": "en-US",
		"de-AT": "de-DE",
	}, got)
	assert.Empty(t, FallbackMap(nil))
}

func TestMergeWithPrecedence(t *testing.T) {
	base := api.Content{"a": "base", "b": "base"}
	override := api.Content{"b": "override", "c": "override"}

	got := MergeWithPrecedence(base, override)
	assert.Equal(t, api.Content{"a": "base", "b": "override", "c": "override"}, got)
	assert.Equal(t, "base", base["b"], "inputs are not modified")

	assert.Equal(t, api.Content{}, MergeWithPrecedence(nil, nil))
}

func TestContentSet_EmptyItems(t *testing.T) {
	tr := New("")
	assert.Equal(t, api.Content{}, tr.ContentSet(en, en, contentSet("empty")))
	assert.Equal(t, api.Content{}, tr.ContentSet(en, en, nil))
}

func TestContentSet_LeafAndImage(t *testing.T) {
	s := contentSet("root",
		enText("a", "Alpha"),
		image(graph.TypeContentImage, "b"),
		image(graph.TypeRegulatedContentImage, "c"),
	)
	got := New("").ContentSet(en, en, s)
	assert.Equal(t, api.Content{"a": "Alpha"}, got)
}

func TestContentSet_ItemsWithoutKeyAreExcluded(t *testing.T) {
	s := contentSet("root",
		leaf("", map[string]string{en: "no key"}),
		contentSet("", enText("x", "nested")),
		enText("kept", "yes"),
	)
	got := New("").ContentSet(en, en, s)
	assert.Equal(t, api.Content{"kept": "yes"}, got)
}

func TestContentSet_MissingBodyTextOmitsKey(t *testing.T) {
	s := contentSet("root", leaf("silent", nil), enText("loud", "hi"))
	got := New("").ContentSet("de-DE", "de-DE", s)
	assert.Equal(t, api.Content{"loud": "hi"}, got)
}

func TestContentSet_NestedSets(t *testing.T) {
	s := contentSet("root",
		enText("title", "Top"),
		contentSet("errors",
			enText("network", "Offline"),
			regulatedSet("legal", enText("terms", "Terms apply")),
		),
	)
	want := api.Content{
		"title": "Top",
		"errors": api.Content{
			"network": "Offline",
			"legal":   api.Content{"terms": "Terms apply"},
		},
	}
	got := New("").ContentSet(en, en, s)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ContentSet mismatch (-want +got):\n%s", diff)
	}
}

func TestContentSet_LaterDuplicateKeyWins(t *testing.T) {
	s := contentSet("root", enText("k", "first"), enText("k", "second"))
	assert.Equal(t, api.Content{"k": "second"}, New("").ContentSet(en, en, s))
}

func TestContentSet_LocaleResolutionOrder(t *testing.T) {
	all := leaf("all", map[string]string{"de-AT": "target", "de-DE": "fallback", en: "default"})
	fallbackOnly := leaf("fb", map[string]string{"de-DE": "fallback", en: "default"})
	defaultOnly := leaf("def", map[string]string{en: "default"})
	otherOnly := leaf("other", map[string]string{"fr-FR": "autre"})

	s := contentSet("root", all, fallbackOnly, defaultOnly, otherOnly)
	got := New("").ContentSet("de-AT", "de-DE", s)
	assert.Equal(t, api.Content{
		"all": "target",
		"fb":  "fallback",
		"def": "default",
	}, got)
}

func TestContentSet_UnknownLocaleUsesDefault(t *testing.T) {
	s := contentSet("root", leaf("k", map[string]string{en: "default"}))
	assert.Equal(t, api.Content{"k": "default"}, New("").ContentSet("xx-XX", "", s))
}

func TestContentSet_CustomDefaultLocale(t *testing.T) {
	item := graph.NewEntry("i", "contentText").
		SetField(fieldKey, "de-DE", "gruss").
		SetField(fieldBodyText, "de-DE", doc("Hallo"))
	s := graph.NewEntry("s", graph.TypeContentSet).
		SetField(fieldContentItems, "de-DE", []*graph.Entry{item})

	tr := New("de-DE")
	assert.Equal(t, "de-DE", tr.DefaultLocale())
	assert.Equal(t, api.Content{"gruss": "Hallo"}, tr.ContentSet("fr-FR", "fr-FR", s))
	assert.Equal(t, api.Content{}, New("").ContentSet("de-DE", "de-DE", s),
		"structure is read from the default locale only")
}

func TestContentSet_EmbeddedEntryPlaceholder(t *testing.T) {
	amount := enText("amount", "42")
	body := &richtext.Node{Type: richtext.TypeDocument, Content: []*richtext.Node{{
		Type: richtext.TypeParagraph,
		Content: []*richtext.Node{
			{Type: richtext.TypeText, Value: "You owe "},
			{Type: richtext.TypeEmbeddedEntry, Target: amount},
		},
	}}}
	item := graph.NewEntry("due", "contentText").
		SetField(fieldKey, en, "due").
		SetField(fieldBodyText, en, body)

	got := New("").ContentSet(en, en, contentSet("root", item))
	assert.Equal(t, api.Content{"due": "You owe {{ amount }}"}, got)
}

func TestContentSet_SelfReferenceStops(t *testing.T) {
	loop := contentSet("loop", enText("a", "A"))
	loop.SetField(fieldContentItems, en, []*graph.Entry{enText("a", "A"), loop})

	got := New("").ContentSet(en, en, loop)
	assert.Equal(t, api.Content{"a": "A", "loop": api.Content{}}, got)
}

func TestContentSet_SharedSiblingsAreNotCycles(t *testing.T) {
	shared := contentSet("shared", enText("x", "X"))
	root := contentSet("root", contentSet("one", shared), contentSet("two", shared))

	got := New("").ContentSet(en, en, root)
	want := api.Content{
		"one": api.Content{"shared": api.Content{"x": "X"}},
		"two": api.Content{"shared": api.Content{"x": "X"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestContentSetArray(t *testing.T) {
	sets := []*graph.Entry{
		contentSet("home", enText("title", "first")),
		contentSet("", enText("ignored", "x")),
		contentSet("home", enText("title", "second")),
		contentSet("other", enText("k", "v")),
	}
	got := New("").ContentSetArray(en, en, sets)
	assert.Equal(t, api.Content{
		"home":  api.Content{"title": "second"},
		"other": api.Content{"k": "v"},
	}, got)
	assert.Equal(t, api.Content{}, New("").ContentSetArray(en, en, nil))
}

func TestModuleExtractors_ConcatenateInModuleOrder(t *testing.T) {
	m1 := module(graph.TypeModule, moduleFields{
		microcopy: []*graph.Entry{contentSet("shared", enText("k", "m1")), contentSet("only1", enText("k", "1"))},
		modals:    []*graph.Entry{contentSet("modal", enText("k", "m1"))},
	})
	m2 := module(graph.TypeModule, moduleFields{
		microcopy: []*graph.Entry{contentSet("shared", enText("k", "m2"))},
	})
	tr := New("")

	micro := tr.ModuleMicrocopy(en, en, []*graph.Entry{m1, m2})
	assert.Equal(t, api.Content{
		"shared": api.Content{"k": "m2"},
		"only1":  api.Content{"k": "1"},
	}, micro)

	modals := tr.ModuleModals(en, en, []*graph.Entry{m1, m2})
	assert.Equal(t, api.Content{"modal": api.Content{"k": "m1"}}, modals)

	assert.Equal(t, api.Content{}, tr.ModuleMicrocopy(en, en, nil))
}

func TestModuleScreens(t *testing.T) {
	m := module(graph.TypeModule, moduleFields{
		screens: []*graph.Entry{
			screen(graph.TypeScreen, "login", contentSet("form", enText("title", "Sign in"))),
		},
	})
	got := New("").ModuleScreens(en, en, []*graph.Entry{m})
	assert.Equal(t, api.Content{
		"login": api.Content{"form": api.Content{"title": "Sign in"}},
	}, got)
}

func TestScreens_FilterContentSetsByVariant(t *testing.T) {
	screens := []*graph.Entry{
		screen(graph.TypeScreen, "home",
			contentSet("plain", enText("k", "unregulated")),
			regulatedSet("legal", enText("k", "regulated")),
		),
		screen(graph.TypeRegulatedScreen, "terms",
			contentSet("plain", enText("k", "unregulated")),
			regulatedSet("legal", enText("k", "regulated")),
		),
		graph.NewEntry("nameless", graph.TypeScreen),
		screen("someOtherScreen", "ignored", contentSet("plain", enText("k", "v"))),
	}
	got := New("").Screens(en, en, screens)
	want := api.Content{
		"home":  api.Content{"plain": api.Content{"k": "unregulated"}},
		"terms": api.Content{"legal": api.Content{"k": "regulated"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Screens mismatch (-want +got):\n%s", diff)
	}
}

func TestScreens_RegulatedWinsOnNameCollision(t *testing.T) {
	screens := []*graph.Entry{
		screen(graph.TypeRegulatedScreen, "checkout", regulatedSet("copy", enText("k", "regulated"))),
		screen(graph.TypeScreen, "checkout", contentSet("copy", enText("k", "unregulated"))),
	}
	got := New("").Screens(en, en, screens)
	assert.Equal(t, api.Content{
		"checkout": api.Content{"copy": api.Content{"k": "regulated"}},
	}, got)
}

func TestForLocale_UnregulatedModuleOverridesGlobal(t *testing.T) {
	dc := channel(
		[]*graph.Entry{contentSet("greeting", enText("text", "hi"))},
		module(graph.TypeModule, moduleFields{
			microcopy: []*graph.Entry{contentSet("greeting", enText("text", "hello"))},
		}),
	)
	got := New("").ForLocale(dc, en, map[string]string{en: en})
	assert.Equal(t, api.Content{
		"greeting": api.Content{"text": "hello"},
		"modals":   api.Content{},
	}, got)
}

func TestForLocale_UnregulatedOverridesRegulated(t *testing.T) {
	regulated := module(graph.TypeRegulatedModule, moduleFields{
		microcopy: []*graph.Entry{regulatedSet("copy", enText("k", "regulated"))},
		modals:    []*graph.Entry{regulatedSet("modal", enText("k", "regulated"))},
		screens: []*graph.Entry{
			screen(graph.TypeRegulatedScreen, "screen", regulatedSet("s", enText("k", "regulated"))),
		},
	})
	unregulated := module(graph.TypeModule, moduleFields{
		microcopy: []*graph.Entry{contentSet("copy", enText("k", "unregulated"))},
		modals:    []*graph.Entry{contentSet("modal", enText("k", "unregulated"))},
		screens: []*graph.Entry{
			screen(graph.TypeScreen, "screen", contentSet("s", enText("k", "unregulated"))),
		},
	})
	// Regulated module listed last: order in the channel does not matter.
	dc := channel(nil, unregulated, regulated)

	got := New("").ForLocale(dc, en, nil)
	want := api.Content{
		"copy":   api.Content{"k": "unregulated"},
		"modals": api.Content{"modal": api.Content{"k": "unregulated"}},
		"screen": api.Content{"s": api.Content{"k": "unregulated"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ForLocale mismatch (-want +got):\n%s", diff)
	}
}

func TestForLocale_ScreenNamedLikeMicrocopyWins(t *testing.T) {
	dc := channel(
		[]*graph.Entry{contentSet("home", enText("k", "microcopy"))},
		module(graph.TypeModule, moduleFields{
			screens: []*graph.Entry{screen(graph.TypeScreen, "home", contentSet("s", enText("k", "screen")))},
		}),
	)
	got := New("").ForLocale(dc, en, nil)
	assert.Equal(t, api.Content{"s": api.Content{"k": "screen"}}, got["home"])
}

func TestForLocale_UsesFallbackMap(t *testing.T) {
	dc := channel([]*graph.Entry{contentSet("c", leaf("k", map[string]string{"de-DE": "Hallo", en: "Hello"}))})
	tr := New("")

	got := tr.ForLocale(dc, "de-AT", map[string]string{"de-AT": "de-DE"})
	assert.Equal(t, api.Content{"k": "Hallo"}, got["c"])

	got = tr.ForLocale(dc, "de-AT", map[string]string{})
	assert.Equal(t, api.Content{"k": "Hello"}, got["c"])
}

func TestForLocale_NilChannel(t *testing.T) {
	got := New("").ForLocale(nil, en, nil)
	assert.Equal(t, api.Content{"modals": api.Content{}}, got)
}

func TestBuild(t *testing.T) {
	dc := channel([]*graph.Entry{contentSet("c", leaf("k", map[string]string{"de-DE": "Hallo", en: "Hello"}))})
	g := graph.New([]*graph.Entry{dc}, []graph.Locale{
		{Code: en},
		{Code: "de-DE", FallbackCode: en},
	})

	out := New("").Build(g, []string{"de-DE", en})
	require.Len(t, out, 2)
	assert.Equal(t, "de-DE", out[0].Locale)
	assert.Equal(t, api.Content{"k": "Hallo"}, out[0].Content["c"])
	assert.Equal(t, en, out[1].Locale)
	assert.Equal(t, api.Content{"k": "Hello"}, out[1].Content["c"])
}

func TestBuild_NoOp(t *testing.T) {
	tr := New("")
	dc := channel(nil)

	assert.Nil(t, tr.Build(nil, []string{en}))
	assert.Nil(t, tr.Build(graph.New([]*graph.Entry{dc}, nil), []string{en}), "no locales")
	assert.Nil(t, tr.Build(graph.New([]*graph.Entry{contentSet("x")}, []graph.Locale{{Code: en}}), []string{en}),
		"no delivery channel")
}
