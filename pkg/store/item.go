package store

import (
	"context"
	"fmt"
	"time"

	"github.com/codeready-toolchain/inbox/ent"
	"github.com/codeready-toolchain/inbox/ent/item"
	"github.com/codeready-toolchain/inbox/pkg/apperrors"
	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/pgvector/pgvector-go"
)

// ItemRepository manages Item rows and their embedded recurrence/linking
// behavior. Every method is scoped by user_id; items are never addressed
// across users.
type ItemRepository struct {
	client *ent.Client
}

// Create inserts a new item with status inbox, rejecting unrecognized
// type/priority enum values before hitting the database.
func (r *ItemRepository) Create(ctx context.Context, in models.CreateItemInput) (*ent.Item, error) {
	if !models.ValidItemType(string(in.Type)) {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unknown item type %q", in.Type))
	}
	if !models.ValidPriority(string(in.Priority)) {
		return nil, apperrors.NewValidationError("priority", fmt.Sprintf("unknown priority %q", in.Priority))
	}

	q := r.client.Item.Create().
		SetUserID(in.UserID).
		SetType(item.Type(in.Type)).
		SetStatus(item.StatusInbox).
		SetSource(item.Source(in.Source))

	if in.Title != "" {
		q = q.SetTitle(in.Title)
	}
	if in.Content != "" {
		q = q.SetContent(in.Content)
	}
	if in.OriginalInput != "" {
		q = q.SetOriginalInput(in.OriginalInput)
	}
	if in.DueAt != nil {
		q = q.SetDueAt(*in.DueAt)
		q = q.SetRemindAt(*in.DueAt)
	}
	if in.DueAtRaw != "" {
		q = q.SetDueAtRaw(in.DueAtRaw)
	}
	if in.Priority != "" {
		q = q.SetPriority(item.Priority(in.Priority))
	}
	if in.ProjectID != nil {
		q = q.SetProjectID(*in.ProjectID)
	}
	if len(in.Tags) > 0 {
		q = q.SetTags(dedupeTags(in.Tags))
	}
	if len(in.Entities) > 0 {
		q = q.SetEntities(in.Entities)
	}
	if in.Attachment != nil {
		q = q.SetFileID(in.Attachment.FileID).
			SetAttachmentType(in.Attachment.Type).
			SetFilename(in.Attachment.Filename)
	}
	if in.Recurrence != nil {
		q = q.SetRecurrence(in.Recurrence.ToMap())
	}

	it, err := q.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return it, nil
}

// Get returns an item owned by userID, or apperrors.ErrNotFound.
func (r *ItemRepository) Get(ctx context.Context, itemID int, userID int64) (*ent.Item, error) {
	it, err := r.client.Item.Query().
		Where(item.IDEQ(itemID), item.UserIDEQ(userID)).
		Only(ctx)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return it, nil
}

// Update applies a partial set of mutable fields. Unknown/unset fields are
// left untouched — that's the zero-value semantics of the pointer fields
// on UpdateItemFields, not an error.
func (r *ItemRepository) Update(ctx context.Context, itemID int, userID int64, fields models.UpdateItemFields) (*ent.Item, error) {
	it, err := r.Get(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	q := it.Update()
	if fields.Title != nil {
		q = q.SetTitle(*fields.Title)
	}
	if fields.Content != nil {
		q = q.SetContent(*fields.Content)
	}
	if fields.Status != nil {
		if !models.ValidItemStatus(string(*fields.Status)) {
			return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", *fields.Status))
		}
		q = q.SetStatus(item.Status(*fields.Status))
	}
	if fields.ClearDueAt {
		q = q.ClearDueAt()
	} else if fields.DueAt != nil {
		q = q.SetDueAt(*fields.DueAt)
	}
	if fields.DueAtRaw != nil {
		q = q.SetDueAtRaw(*fields.DueAtRaw)
	}
	if fields.Priority != nil {
		if !models.ValidPriority(string(*fields.Priority)) {
			return nil, apperrors.NewValidationError("priority", fmt.Sprintf("unknown priority %q", *fields.Priority))
		}
		q = q.SetPriority(item.Priority(*fields.Priority))
	}
	if fields.ClearProj {
		q = q.ClearProjectID()
	} else if fields.ProjectID != nil {
		q = q.SetProjectID(*fields.ProjectID)
	}
	if fields.Tags != nil {
		q = q.SetTags(dedupeTags(fields.Tags))
	}
	if fields.RemindAt != nil {
		q = q.SetRemindAt(*fields.RemindAt)
	}
	if fields.Recurrence != nil {
		q = q.SetRecurrence(fields.Recurrence.ToMap())
	}

	it, err = q.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return it, nil
}

// Complete marks an item done and, if it carries a recurrence rule and a
// due_at, materializes the next occurrence in the same transaction. Gated
// on the !done -> done transition: completing an already-done item is an
// idempotent no-op that returns the item unchanged and never re-materializes
// a recurrence.
func (r *ItemRepository) Complete(ctx context.Context, itemID int, userID int64) (completed *ent.Item, next *ent.Item, err error) {
	err = withTx(ctx, r.client, func(tx *ent.Tx) error {
		it, gerr := tx.Item.Query().Where(item.IDEQ(itemID), item.UserIDEQ(userID)).Only(ctx)
		if gerr != nil {
			return mapNotFound(gerr)
		}

		if it.Status == item.StatusDone {
			completed = it
			return nil
		}

		now := time.Now().UTC()
		it, gerr = it.Update().
			SetStatus(item.StatusDone).
			SetCompletedAt(now).
			Save(ctx)
		if gerr != nil {
			return fmt.Errorf("completing item: %w", gerr)
		}
		completed = it

		rec := models.RecurrenceFromMap(it.Recurrence)
		if rec == nil || it.DueAt == nil {
			return nil
		}
		nextDue := nextDueDate(*it.DueAt, rec)
		if nextDue == nil {
			return nil
		}

		q := tx.Item.Create().
			SetUserID(userID).
			SetType(it.Type).
			SetStatus(item.StatusInbox).
			SetSource(it.Source).
			SetDueAt(*nextDue).
			SetRemindAt(*nextDue).
			SetRecurrence(it.Recurrence)
		if it.Title != "" {
			q = q.SetTitle(it.Title)
		}
		if it.Content != "" {
			q = q.SetContent(it.Content)
		}
		if it.DueAtRaw != nil {
			q = q.SetDueAtRaw(*it.DueAtRaw)
		}
		if it.Priority != nil {
			q = q.SetPriority(*it.Priority)
		}
		if it.ProjectID != nil {
			q = q.SetProjectID(*it.ProjectID)
		}
		if len(it.Tags) > 0 {
			q = q.SetTags(it.Tags)
		}

		created, cerr := q.Save(ctx)
		if cerr != nil {
			return fmt.Errorf("creating recurring instance: %w", cerr)
		}
		next = created
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return completed, next, nil
}

// Delete removes an item owned by userID, returning whether it existed.
func (r *ItemRepository) Delete(ctx context.Context, itemID int, userID int64) (bool, error) {
	n, err := r.client.Item.Delete().
		Where(item.IDEQ(itemID), item.UserIDEQ(userID)).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return n > 0, nil
}

// BatchUpdate applies fields to every item in ids owned by userID,
// returning the count actually updated.
func (r *ItemRepository) BatchUpdate(ctx context.Context, ids []int, userID int64, fields models.UpdateItemFields) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := r.client.Item.Update().Where(item.IDIn(ids...), item.UserIDEQ(userID))
	if fields.Status != nil {
		if !models.ValidItemStatus(string(*fields.Status)) {
			return 0, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", *fields.Status))
		}
		q = q.SetStatus(item.Status(*fields.Status))
	}
	if fields.Priority != nil {
		if !models.ValidPriority(string(*fields.Priority)) {
			return 0, apperrors.NewValidationError("priority", fmt.Sprintf("unknown priority %q", *fields.Priority))
		}
		q = q.SetPriority(item.Priority(*fields.Priority))
	}
	if fields.ClearProj {
		q = q.ClearProjectID()
	} else if fields.ProjectID != nil {
		q = q.SetProjectID(*fields.ProjectID)
	}
	if fields.ClearDueAt {
		q = q.ClearDueAt()
	} else if fields.DueAt != nil {
		q = q.SetDueAt(*fields.DueAt)
	}

	n, err := q.Save(ctx)
	if err != nil {
		return 0, fmt.Errorf("batch updating items: %w", err)
	}
	return n, nil
}

// BatchDelete removes every item in ids owned by userID, returning the
// count actually deleted.
func (r *ItemRepository) BatchDelete(ctx context.Context, ids []int, userID int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := r.client.Item.Delete().
		Where(item.IDIn(ids...), item.UserIDEQ(userID)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("batch deleting items: %w", err)
	}
	return n, nil
}

// List returns a page of items matching the given filters, plus the total
// count ignoring pagination.
func (r *ItemRepository) List(ctx context.Context, userID int64, filter models.ItemFilter, page models.Page) ([]*ent.Item, int, error) {
	base := r.client.Item.Query().Where(item.UserIDEQ(userID))
	base = applyTypeStatusProject(base, filter)

	total, err := base.Clone().Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}

	items, err := base.
		Order(ent.Desc(item.FieldCreatedAt)).
		Limit(page.Limit).
		Offset(page.Offset).
		All(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing items: %w", err)
	}
	return items, total, nil
}

// SearchAdvanced is the structured ILIKE/filter search over title, content,
// and original_input — distinct from the ranked hybrid engine in
// pkg/search, grounded on the original implementation's
// ItemRepository.search_advanced.
func (r *ItemRepository) SearchAdvanced(ctx context.Context, userID int64, filter models.ItemFilter, limit int) ([]*ent.Item, error) {
	q := r.client.Item.Query().Where(item.UserIDEQ(userID))
	q = applyTypeStatusProject(q, filter)

	if filter.Priority != "" {
		q = q.Where(item.PriorityEQ(item.Priority(filter.Priority)))
	}

	dateField := filter.DateField
	if dateField == "" {
		dateField = "created_at"
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		if dateField == "due_at" {
			if filter.DateFrom != nil {
				q = q.Where(item.DueAtGTE(*filter.DateFrom))
			}
			if filter.DateTo != nil {
				q = q.Where(item.DueAtLTE(*filter.DateTo))
			}
		} else {
			if filter.DateFrom != nil {
				q = q.Where(item.CreatedAtGTE(*filter.DateFrom))
			}
			if filter.DateTo != nil {
				q = q.Where(item.CreatedAtLTE(*filter.DateTo))
			}
		}
	}

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where(item.Or(
			item.TitleContainsFold(pattern),
			item.ContentContainsFold(pattern),
			item.OriginalInputContainsFold(pattern),
		))
	}

	if limit <= 0 {
		limit = 10
	}

	items, err := q.Order(ent.Desc(item.FieldCreatedAt)).Limit(limit).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}

	// Tag matching (items containing ALL specified tags) is filtered in Go:
	// ent's JSON field predicates don't generate a contains-all operator,
	// and per-user item counts are small enough that this is cheap.
	if len(filter.Tags) > 0 {
		items = filterByTags(items, filter.Tags)
	}
	return items, nil
}

func filterByTags(items []*ent.Item, want []string) []*ent.Item {
	out := items[:0]
	for _, it := range items {
		have := make(map[string]struct{}, len(it.Tags))
		for _, t := range it.Tags {
			have[t] = struct{}{}
		}
		matches := true
		for _, w := range want {
			if _, ok := have[w]; !ok {
				matches = false
				break
			}
		}
		if matches {
			out = append(out, it)
		}
	}
	return out
}

// GetTasksWithDueDates returns tasks within an optional due_at window,
// ordered by due_at ascending with nulls last.
func (r *ItemRepository) GetTasksWithDueDates(ctx context.Context, userID int64, from, to *time.Time) ([]*ent.Item, error) {
	q := r.client.Item.Query().Where(item.UserIDEQ(userID), item.TypeEQ(item.TypeTask))
	if from != nil {
		q = q.Where(item.DueAtGTE(*from))
	}
	if to != nil {
		q = q.Where(item.DueAtLTE(*to))
	}
	items, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks with due dates: %w", err)
	}
	orderNullsLast(items)
	return items, nil
}

// DueWindowHit pairs an item with its owning user id, the shape
// find_due_window returns per spec.md §4.1.
type DueWindowHit struct {
	Item   *ent.Item
	UserID int64
}

// FindDueWindow returns every (inbox|active) item across all users whose
// remind_at — or due_at when remind_at is null — falls in [from, to].
// Backs the reminder scheduler's 60-second tick (pkg/scheduler).
func (r *ItemRepository) FindDueWindow(ctx context.Context, from, to time.Time) ([]DueWindowHit, error) {
	items, err := r.client.Item.Query().
		Where(
			item.StatusIn(item.StatusInbox, item.StatusActive),
			item.Or(
				item.And(item.RemindAtNotNil(), item.RemindAtGTE(from), item.RemindAtLTE(to)),
				item.And(item.RemindAtIsNil(), item.DueAtNotNil(), item.DueAtGTE(from), item.DueAtLTE(to)),
			),
		).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding due window: %w", err)
	}
	hits := make([]DueWindowHit, len(items))
	for i, it := range items {
		hits[i] = DueWindowHit{Item: it, UserID: it.UserID}
	}
	return hits, nil
}

// Snooze sets remind_at to a sentinel one day in the past so the item is
// not re-selected by FindDueWindow until a client explicitly re-arms it.
func (r *ItemRepository) Snooze(ctx context.Context, itemID int) error {
	sentinel := time.Now().UTC().AddDate(0, 0, -1)
	_, err := r.client.Item.UpdateOneID(itemID).SetRemindAt(sentinel).Save(ctx)
	if err != nil {
		return fmt.Errorf("snoozing reminder: %w", err)
	}
	return nil
}

// RecentForContext returns the user's most recently created items in the
// compact shape the ingestion pipeline feeds to the LLM as context.
func (r *ItemRepository) RecentForContext(ctx context.Context, userID int64, limit int) ([]*ent.Item, error) {
	items, err := r.client.Item.Query().
		Where(item.UserIDEQ(userID)).
		Order(ent.Desc(item.FieldCreatedAt)).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recent items: %w", err)
	}
	return items, nil
}

// SetEmbedding stores a computed embedding vector for an item (stage 4 of
// the ingestion pipeline).
func (r *ItemRepository) SetEmbedding(ctx context.Context, itemID int, vec *pgvector.Vector) error {
	_, err := r.client.Item.UpdateOneID(itemID).SetEmbedding(vec).Save(ctx)
	if err != nil {
		return fmt.Errorf("storing embedding: %w", err)
	}
	return nil
}

func applyTypeStatusProject(q *ent.ItemQuery, filter models.ItemFilter) *ent.ItemQuery {
	if len(filter.Types) > 0 {
		types := make([]item.Type, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = item.Type(t)
		}
		q = q.Where(item.TypeIn(types...))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]item.Status, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = item.Status(s)
		}
		q = q.Where(item.StatusIn(statuses...))
	}
	if filter.ProjectID != nil {
		q = q.Where(item.ProjectIDEQ(*filter.ProjectID))
	}
	return q
}

// orderNullsLast reorders an already-loaded slice by due_at ascending with
// nil due_at pushed to the end — cheaper than a second round trip for the
// small per-user task lists this serves.
func orderNullsLast(items []*ent.Item) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j-1], items[j] = items[j], items[j-1]
		}
	}
}

func less(a, b *ent.Item) bool {
	if a.DueAt == nil {
		return false
	}
	if b.DueAt == nil {
		return true
	}
	return a.DueAt.Before(*b.DueAt)
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
