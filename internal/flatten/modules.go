package flatten

import (
	"github.com/agentic-research/microcopy/api"
	"github.com/agentic-research/microcopy/internal/graph"
)

// ModuleMicrocopy flattens the microcopy sets of all modules, in module order.
func (t *Transformer) ModuleMicrocopy(locale, fallback string, modules []*graph.Entry) api.Content {
	return t.moduleMicrocopy(newPass(locale, fallback), modules)
}

// ModuleModals flattens the modal sets of all modules, in module order.
func (t *Transformer) ModuleModals(locale, fallback string, modules []*graph.Entry) api.Content {
	return t.moduleModals(newPass(locale, fallback), modules)
}

// ModuleScreens flattens every screen of every screen set of all modules.
func (t *Transformer) ModuleScreens(locale, fallback string, modules []*graph.Entry) api.Content {
	return t.moduleScreens(newPass(locale, fallback), modules)
}

func (t *Transformer) moduleMicrocopy(p *pass, modules []*graph.Entry) api.Content {
	return t.contentSetArray(p, t.collect(modules, fieldMicrocopy))
}

func (t *Transformer) moduleModals(p *pass, modules []*graph.Entry) api.Content {
	return t.contentSetArray(p, t.collect(modules, fieldModals))
}

func (t *Transformer) moduleScreens(p *pass, modules []*graph.Entry) api.Content {
	screenSets := t.collect(modules, fieldScreenSets)
	return t.screens(p, t.collect(screenSets, fieldScreens))
}
