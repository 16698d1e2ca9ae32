package flatten

import (
	"github.com/agentic-research/microcopy/internal/graph"
	"github.com/agentic-research/microcopy/internal/richtext"
)

const en = DefaultLocale

// doc builds a document with one paragraph per line.
func doc(lines ...string) *richtext.Node {
	d := &richtext.Node{Type: richtext.TypeDocument}
	for _, l := range lines {
		d.Content = append(d.Content, &richtext.Node{
			Type:    richtext.TypeParagraph,
			Content: []*richtext.Node{{Type: richtext.TypeText, Value: l}},
		})
	}
	return d
}

// leaf builds a text item; bodies maps locale to a single-line text.
func leaf(key string, bodies map[string]string) *graph.Entry {
	e := graph.NewEntry("leaf-"+key, "contentText")
	if key != "" {
		e.SetField(fieldKey, en, key)
	}
	for locale, text := range bodies {
		e.SetField(fieldBodyText, locale, doc(text))
	}
	return e
}

func enText(key, text string) *graph.Entry {
	return leaf(key, map[string]string{en: text})
}

func image(contentType, key string) *graph.Entry {
	return graph.NewEntry("img-"+key, contentType).SetField(fieldKey, en, key)
}

func set(contentType, key string, items ...*graph.Entry) *graph.Entry {
	e := graph.NewEntry("set-"+key, contentType)
	if key != "" {
		e.SetField(fieldKey, en, key)
	}
	if items != nil {
		e.SetField(fieldContentItems, en, items)
	}
	return e
}

func contentSet(key string, items ...*graph.Entry) *graph.Entry {
	return set(graph.TypeContentSet, key, items...)
}

func regulatedSet(key string, items ...*graph.Entry) *graph.Entry {
	return set(graph.TypeRegulatedContentSet, key, items...)
}

func screen(contentType, name string, contents ...*graph.Entry) *graph.Entry {
	return graph.NewEntry("screen-"+name, contentType).
		SetField(fieldName, en, name).
		SetField(fieldContents, en, contents)
}

type moduleFields struct {
	microcopy, modals, screens []*graph.Entry
}

func module(contentType string, fields moduleFields) *graph.Entry {
	m := graph.NewEntry("module", contentType)
	if fields.microcopy != nil {
		m.SetField(fieldMicrocopy, en, fields.microcopy)
	}
	if fields.modals != nil {
		m.SetField(fieldModals, en, fields.modals)
	}
	if fields.screens != nil {
		screenSet := graph.NewEntry("screen-set", "screenSet").SetField(fieldScreens, en, fields.screens)
		m.SetField(fieldScreenSets, en, []*graph.Entry{screenSet})
	}
	return m
}

func channel(microcopy []*graph.Entry, modules ...*graph.Entry) *graph.Entry {
	dc := graph.NewEntry("dc", graph.TypeDeliveryChannel)
	if microcopy != nil {
		dc.SetField(fieldMicrocopy, en, microcopy)
	}
	dc.SetField(fieldModules, en, modules)
	return dc
}
