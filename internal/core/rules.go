package core

import "jobdeck/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in invariant
// guards. They run inside every transaction and block commits that would
// corrupt the document.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewEnumMembershipRule())
	engine.Register(NewTaskParentRule())
	engine.Register(NewColumnOrderRule())
	return engine
}
