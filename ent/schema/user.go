package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// User holds the schema definition for the User entity.
// Users are externally identified (e.g. by the chat transport's own user
// id) and are created on first reference — see UserRepository.GetOrCreate.
type User struct {
	ent.Schema
}

// Fields of the User.
func (User) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("user_id").
			Unique().
			Immutable().
			Comment("Externally-assigned opaque identifier"),
		field.String("timezone").
			Default("Asia/Almaty").
			Comment("IANA timezone name"),
		field.String("language").
			Optional().
			Default("en"),
		field.JSON("settings", map[string]interface{}{}).
			Optional().
			Comment("Free-form notification/settings map"),
		field.Bool("onboarding_completed").
			Default(false),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the User.
func (User) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("projects", Project.Type),
		edge.To("items", Item.Type),
	}
}
