// internal/domain/content/editor.go
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/congregate/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func nowUTC() time.Time { return time.Now().UTC() }

// Editor errors. Features map these onto API responses; none of them leave
// the edit buffer in a partially applied state.
var (
	ErrUnknownSectionType = errors.New("unknown section type")
	ErrTitleRequired      = errors.New("page title is required")
	ErrSlugRequired       = errors.New("page slug is required")
	ErrSectionNotFound    = errors.New("section not found")
	ErrIndexOutOfRange    = errors.New("section index out of range")
	ErrNotSaved           = errors.New("page has not been saved")
	ErrNoPageID           = errors.New("no page id returned after save")
)

// Saver is the persistence collaborator the editor writes through. The
// mongo-backed implementation lives in internal/app/store/content; tests
// substitute their own.
//
// SavePageWithSections performs a full create-or-replace of the page and its
// entire section list in one call. The returned page must carry an id after
// a successful create.
type Saver interface {
	SavePageWithSections(ctx context.Context, page models.Page, sections []models.PageSection, existingID primitive.ObjectID) (models.Page, []models.PageSection, error)
	Publish(ctx context.Context, id primitive.ObjectID) error
	Unpublish(ctx context.Context, id primitive.ObjectID) error
}

// Section is one entry in the editor's buffer. TempID correlates the entry
// across edits; it is client-side only and never persisted. ID is set once
// the owning page has been saved.
type Section struct {
	ID     primitive.ObjectID
	TempID string
	Type   models.SectionType
	Order  int
	Props  map[string]any
}

// Editor is the in-memory edit buffer for one page and its sections. It is
// owned by a single edit session and is not safe for concurrent use; only
// Save, Publish, and Unpublish touch the network.
type Editor struct {
	store    Saver
	page     models.Page
	sections []Section

	// publishOnCreate records the draft/published toggle for a page that has
	// never been saved. Once the page exists, publish state changes only
	// through Publish and Unpublish.
	publishOnCreate bool
}

// New creates an editor for a new, unsaved page.
func New(store Saver) *Editor {
	return &Editor{store: store}
}

// Load creates an editor for an existing page and its persisted sections.
// Persisted sections adopt their id as the correlation id.
func Load(store Saver, page models.Page, sections []models.PageSection) *Editor {
	ed := &Editor{store: store, page: page}
	for _, s := range sections {
		ed.sections = append(ed.sections, Section{
			ID:     s.ID,
			TempID: s.ID.Hex(),
			Type:   s.Type,
			Order:  s.Order,
			Props:  s.Props,
		})
	}
	return ed
}

// Page returns a copy of the page as the editor currently sees it.
func (e *Editor) Page() models.Page { return e.page }

// Sections returns a copy of the section buffer in its current order.
func (e *Editor) Sections() []Section {
	out := make([]Section, len(e.sections))
	copy(out, e.sections)
	return out
}

// SetTitle sets the page title.
func (e *Editor) SetTitle(title string) { e.page.Title = title }

// SetSlug sets the page slug.
func (e *Editor) SetSlug(slug string) { e.page.Slug = slug }

// GenerateSlug derives the slug from the current title. It does nothing when
// the title is empty.
func (e *Editor) GenerateSlug() {
	if e.page.Title == "" {
		return
	}
	e.page.Slug = models.SlugFromTitle(e.page.Title)
}

// SetSEOMeta replaces the page's SEO metadata.
func (e *Editor) SetSEOMeta(meta models.SEOMeta) { e.page.SEOMeta = meta }

// SetPublished sets the draft/published toggle for a page that has not been
// created yet; the choice takes effect at first save. For a saved page it is
// ignored; use Publish and Unpublish instead.
func (e *Editor) SetPublished(published bool) { e.publishOnCreate = published }

// AddSection appends a new section of the given type with its default props
// and a fresh temporary id, which is returned so a UI can auto-expand it.
func (e *Editor) AddSection(t models.SectionType) (string, error) {
	props, err := DefaultProps(t)
	if err != nil {
		return "", err
	}
	sec := Section{
		TempID: uuid.NewString(),
		Type:   t,
		Order:  len(e.sections),
		Props:  props,
	}
	e.sections = append(e.sections, sec)
	return sec.TempID, nil
}

// RemoveSection deletes the section with the given temp id. Removing an id
// that is not present is a no-op, and removing the last section leaves a
// valid empty buffer. Remaining Order values are not renumbered here; save
// renumbers, so the sequence tolerates transient gaps during a batch of
// edits.
func (e *Editor) RemoveSection(tempID string) {
	kept := e.sections[:0]
	for _, s := range e.sections {
		if s.TempID != tempID {
			kept = append(kept, s)
		}
	}
	e.sections = kept
}

// Reorder moves the section at src to dst (splice semantics) and renumbers
// every section to its new positional index. Reordering must renumber
// immediately so visual order always matches persisted order while dragging.
// Reordering to the same index is a safe no-op.
func (e *Editor) Reorder(src, dst int) error {
	n := len(e.sections)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return fmt.Errorf("%w: src=%d dst=%d len=%d", ErrIndexOutOfRange, src, dst, n)
	}
	if src != dst {
		moved := e.sections[src]
		e.sections = append(e.sections[:src], e.sections[src+1:]...)
		e.sections = append(e.sections[:dst], append([]Section{moved}, e.sections[dst:]...)...)
	}
	for i := range e.sections {
		e.sections[i].Order = i
	}
	return nil
}

// UpdateSectionProps shallow-merges patch into the props of the section with
// the given temp id. The merge is one level deep: nested objects must be
// replaced whole by the caller. No shape validation is performed.
func (e *Editor) UpdateSectionProps(tempID string, patch map[string]any) error {
	for i := range e.sections {
		if e.sections[i].TempID != tempID {
			continue
		}
		if e.sections[i].Props == nil {
			e.sections[i].Props = make(map[string]any, len(patch))
		}
		for k, v := range patch {
			e.sections[i].Props[k] = v
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrSectionNotFound, tempID)
}

// UnknownTypes returns the section types present in the buffer that the
// registry does not recognize. Such sections are carried through edits and
// saves untouched; an editing surface should render them as a
// not-yet-implemented placeholder instead of failing.
func (e *Editor) UnknownTypes() []models.SectionType {
	var unknown []models.SectionType
	seen := make(map[models.SectionType]bool)
	for _, s := range e.sections {
		if !IsKnownType(s.Type) && !seen[s.Type] {
			seen[s.Type] = true
			unknown = append(unknown, s.Type)
		}
	}
	return unknown
}

// Save persists the page and its entire section list in a single call to the
// store. Temporary ids are stripped from the payload, persisted section ids
// are carried through, and Order values are renumbered to the current
// sequence position first.
//
// A new page adopts the server-assigned id on success (and its publish state
// from the draft toggle). On any failure the edit buffer is left untouched
// so the caller can retry; a retry with no intervening edits sends the same
// document.
func (e *Editor) Save(ctx context.Context) error {
	if e.page.Title == "" {
		return ErrTitleRequired
	}
	if e.page.Slug == "" {
		return ErrSlugRequired
	}

	creating := e.page.ID.IsZero()
	page := e.page
	if creating && e.publishOnCreate && page.PublishedAt == nil {
		now := nowUTC()
		page.PublishedAt = &now
	}

	payload := make([]models.PageSection, len(e.sections))
	for i, s := range e.sections {
		// Persisted sections keep their real id; sections added this
		// session carry only a temp id, which never leaves the buffer.
		payload[i] = models.PageSection{
			ID:    s.ID,
			Type:  s.Type,
			Order: i,
			Props: s.Props,
		}
	}

	saved, savedSections, err := e.store.SavePageWithSections(ctx, page, payload, e.page.ID)
	if err != nil {
		return err
	}
	if creating && saved.ID.IsZero() {
		// The document was persisted; only the id for continued editing is
		// missing. The caller should return to the page list and reopen.
		return ErrNoPageID
	}

	e.page = saved
	for i := range e.sections {
		e.sections[i].Order = i
		if i < len(savedSections) {
			e.sections[i].ID = savedSections[i].ID
		}
	}
	return nil
}

// Publish marks the page published now. The page must have been saved; the
// call flips only the publish timestamp and never resubmits section content,
// so unsaved section edits stay local.
func (e *Editor) Publish(ctx context.Context) error {
	if e.page.ID.IsZero() {
		return ErrNotSaved
	}
	if err := e.store.Publish(ctx, e.page.ID); err != nil {
		return err
	}
	now := nowUTC()
	e.page.PublishedAt = &now
	return nil
}

// Unpublish returns the page to draft. Like Publish, it only flips the
// publish timestamp.
func (e *Editor) Unpublish(ctx context.Context) error {
	if e.page.ID.IsZero() {
		return ErrNotSaved
	}
	if err := e.store.Unpublish(ctx, e.page.ID); err != nil {
		return err
	}
	e.page.PublishedAt = nil
	return nil
}
