package cli

import (
	"errors"
	"fmt"

	"gran/internal/dispatch"
	"gran/internal/entity"
	"gran/internal/query"

	flag "github.com/spf13/pflag"
)

// viewKindType maps each single-type list view to the entity type it lists.
//
//nolint:gochecknoglobals // package-level constant
var viewKindType = map[dispatch.ViewKind]entity.Type{
	dispatch.ViewTasks:      entity.TypeTasks,
	dispatch.ViewTimeAudits: entity.TypeTimeAudits,
	dispatch.ViewEvents:     entity.TypeEvents,
	dispatch.ViewTimespans:  entity.TypeTimespans,
	dispatch.ViewLogs:       entity.TypeLogs,
	dispatch.ViewNotes:      entity.TypeNotes,
	dispatch.ViewTrackers:   entity.TypeTrackers,
	dispatch.ViewEntries:    entity.TypeEntries,
}

// addListFlags binds the shared list-view flags onto a FlagSet.
func addListFlags(fs *flag.FlagSet, p *dispatch.ListParams) {
	fs.BoolVar(&p.IncludeDeleted, "deleted", false, "include soft-deleted entities")
	fs.StringArrayVar(&p.Tags, "tag", nil, "require an exact tag (repeatable)")
	fs.StringArrayVar(&p.TagRegex, "tag-regex", nil, "require a tag matching the pattern (repeatable)")
	fs.StringArrayVar(&p.NoTags, "no-tag", nil, "exclude entities with an exact tag (repeatable)")
	fs.StringArrayVar(&p.NoTagRegex, "no-tag-regex", nil, "exclude entities with a tag matching the pattern (repeatable)")
	fs.StringVar(&p.Project, "project", "", "require an exact project")
}

// listFilter builds the filter tree for the shared list flags. Extra
// predicates from the specific view are appended to the same AND node.
// Soft-deleted entities are excluded unless --deleted was given.
func listFilter(p dispatch.ListParams, extra ...*query.Spec) *query.Spec {
	var children []*query.Spec

	if !p.IncludeDeleted {
		children = append(children, query.Empty(entity.PropertyDeleted))
	}

	for _, tag := range p.Tags {
		children = append(children, query.Tag(tag))
	}

	for _, pattern := range p.TagRegex {
		children = append(children, query.TagRegex(pattern))
	}

	for _, tag := range p.NoTags {
		children = append(children, query.Not(query.Tag(tag)))
	}

	for _, pattern := range p.NoTagRegex {
		children = append(children, query.Not(query.TagRegex(pattern)))
	}

	if p.Project != "" {
		children = append(children, query.Str(entity.PropertyProjects, "contains:"+p.Project))
	}

	children = append(children, extra...)

	return query.And(children...)
}

// contextFilter wraps a filter tree with the active context's filter, if
// any. The context narrows every list view while active.
func (a *App) contextFilter(filter *query.Spec) (*query.Spec, error) {
	active, err := a.Store.Contexts.Active()
	if err != nil {
		return nil, err
	}

	if active == nil || active.Filter == nil {
		return filter, nil
	}

	return query.And(active.Filter, filter), nil
}

// evaluate compiles and runs a filter tree over one entity type, in
// storage order.
func (a *App) evaluate(t entity.Type, filter *query.Spec) ([]entity.Record, error) {
	records, err := a.Store.Records(t)
	if err != nil {
		return nil, err
	}

	compiler := query.Compiler{Now: a.Now}

	predicate, err := compiler.Compile(filter)
	if err != nil {
		return nil, err
	}

	return predicate.Evaluate(records), nil
}

// assignIDs starts a fresh reference epoch for the type (unless keep_ids is
// set) and associates every displayed record, returning the synthetic ids
// in display order.
func (a *App) assignIDs(t entity.Type, records []entity.Record) ([]int, error) {
	if !a.Config.KeepIDs {
		if err := a.IDs.ResetEpoch(t); err != nil {
			return nil, err
		}
	}

	ids := make([]int, 0, len(records))

	for _, rec := range records {
		id, err := a.IDs.Associate(t, rec.EntityID())
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// recordView saves the dispatch record for a list view unless view caching
// is disabled.
func (a *App) recordView(kind dispatch.ViewKind, params any) error {
	if !a.Config.CacheView {
		return nil
	}

	return a.Dispatch.Save(kind, params)
}

// runListView is the common path for the single-type list views: filter,
// assign synthetic ids, print one line per record, record the view.
func (a *App) runListView(kind dispatch.ViewKind, params any, filter *query.Spec) error {
	t, ok := viewKindType[kind]
	if !ok {
		return fmt.Errorf("not a single-type list view: %q", kind)
	}

	filter, err := a.contextFilter(filter)
	if err != nil {
		return err
	}

	results, err := a.evaluate(t, filter)
	if err != nil {
		return err
	}

	ids, err := a.assignIDs(t, results)
	if err != nil {
		return err
	}

	for i, rec := range results {
		a.IO.Println(formatRecord(ids[i], rec))
	}

	if len(results) == 0 {
		a.IO.Println("nothing to show")
	}

	return a.recordView(kind, params)
}

// replayAfterMutation re-runs the cached list view so stale synthetic ids
// never survive a mutation. Missing or deprecated cache entries are soft
// failures.
func (a *App) replayAfterMutation() error {
	if !a.Config.CacheView {
		return nil
	}

	rec, ok, err := a.Dispatch.Get()
	if err != nil {
		return err
	}

	if !ok {
		return nil
	}

	replayErr := a.Router.Replay(rec)
	if errors.Is(replayErr, dispatch.ErrDeprecatedViewKind) {
		a.IO.Warn("%v", replayErr)

		return nil
	}

	return replayErr
}

// assigner hands out synthetic ids across the multiple entity types of a
// composite view. Each type's epoch is reset on first use, so a composite
// view invalidates references for exactly the types it displays.
type assigner struct {
	app   *App
	fresh map[entity.Type]bool
}

func (a *App) newAssigner() *assigner {
	return &assigner{app: a, fresh: make(map[entity.Type]bool)}
}

func (s *assigner) id(t entity.Type, rec entity.Record) (int, error) {
	if !s.fresh[t] {
		s.fresh[t] = true

		if !s.app.Config.KeepIDs {
			if err := s.app.IDs.ResetEpoch(t); err != nil {
				return 0, err
			}
		}
	}

	return s.app.IDs.Associate(t, rec.EntityID())
}

// resolveReference turns a user-supplied synthetic id into a permanent id.
func (a *App) resolveReference(t entity.Type, synthetic int) (string, error) {
	return a.IDs.Resolve(t, synthetic)
}
