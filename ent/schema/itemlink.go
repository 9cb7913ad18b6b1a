package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ItemLink holds the schema definition for the ItemLink entity — a
// directed relation between two items of the same user.
type ItemLink struct {
	ent.Schema
}

// Fields of the ItemLink.
func (ItemLink) Fields() []ent.Field {
	return []ent.Field{
		field.Int("source_item_id").
			Immutable(),
		field.Int("target_item_id").
			Immutable(),
		field.String("link_type").
			Default("related"),
		field.String("reason").
			Optional().
			Nillable().
			MaxLen(200),
		field.Float("confidence").
			Optional().
			Nillable(),
		field.Bool("confirmed").
			Default(true),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the ItemLink.
func (ItemLink) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("source", Item.Type).
			Ref("outgoing_links").
			Field("source_item_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ItemLink.
func (ItemLink) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("source_item_id", "target_item_id").Unique(),
		index.Fields("target_item_id"),
	}
}
