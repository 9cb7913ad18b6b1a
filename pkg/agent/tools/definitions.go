// Package tools implements the management-intent tool protocol
// (spec.md §4.4): tool definitions, their executors against pkg/store,
// and the bounded agent loop that drives a ports.ToolChat through
// them. Tool names, parameter shapes, and the preview/confirm split for
// batch operations are translated directly from
// original_source/src/ai/tools.py (TOOL_DEFINITIONS, TOOL_EXECUTORS).
// The ToolExecutor vocabulary itself is pkg/agent's (types.go).
package tools

import "github.com/codeready-toolchain/inbox/pkg/agent"

const filterSchemaProps = `
			"query": {"type": "string", "description": "Text search query (matches title, content, original input)"},
			"type": {"type": "string", "enum": ["task", "idea", "note", "resource", "contact", "event"]},
			"status": {"type": "string", "enum": ["inbox", "active", "done", "archived"]},
			"date_field": {"type": "string", "enum": ["due_at", "created_at"]},
			"date_from": {"type": "string", "description": "ISO 8601 start of range"},
			"date_to": {"type": "string", "description": "ISO 8601 end of range"},
			"project": {"description": "Project name or numeric id"},
			"priority": {"type": "string", "enum": ["high", "medium", "low"]},
			"tags": {"type": "array", "items": {"type": "string"}}`

// Definitions returns the full set of tool schemas offered to the
// management-intent agent loop.
func Definitions() []agent.ToolDefinition {
	return []agent.ToolDefinition{
		{
			Name:        "search_items",
			Description: "Search items by text and filters. Use to find item IDs for further operations.",
			ParametersSchema: `{
	"type": "object",
	"properties": {` + filterSchemaProps + `,
		"limit": {"type": "integer", "default": 10, "description": "Maximum results to return"}
	},
	"required": []
}`,
		},
		{
			Name:        "get_item_details",
			Description: "Get full details of an item by id.",
			ParametersSchema: `{
	"type": "object",
	"properties": {
		"item_id": {"type": "integer", "description": "Id of the item to retrieve"}
	},
	"required": ["item_id"]
}`,
		},
		{
			Name:        "batch_update_items",
			Description: "Batch update items matching a filter. Returns a preview requiring confirmation unless confirmed+confirmation_token are supplied.",
			ParametersSchema: `{
	"type": "object",
	"properties": {
		"filter": {"type": "object", "description": "Same shape as search_items", "properties": {` + filterSchemaProps + `}},
		"updates": {
			"type": "object",
			"properties": {
				"due_at": {"type": "string"},
				"due_at_raw": {"type": "string"},
				"status": {"type": "string", "enum": ["inbox", "active", "done", "archived"]},
				"priority": {"type": "string", "enum": ["high", "medium", "low"]},
				"project_id": {"type": "integer"},
				"tags": {"type": "array", "items": {"type": "string"}}
			}
		},
		"confirmed": {"type": "boolean", "default": false},
		"confirmation_token": {"type": "string"}
	},
	"required": ["filter", "updates"]
}`,
		},
		{
			Name:        "batch_delete_items",
			Description: "Batch delete items matching a filter. Returns a preview requiring confirmation unless confirmed+confirmation_token are supplied.",
			ParametersSchema: `{
	"type": "object",
	"properties": {
		"filter": {"type": "object", "description": "Same shape as search_items", "properties": {` + filterSchemaProps + `}},
		"confirmed": {"type": "boolean", "default": false},
		"confirmation_token": {"type": "string"}
	},
	"required": ["filter"]
}`,
		},
		{
			Name:        "manage_projects",
			Description: "Manage projects: create, list, get, rename, update, delete, move_items.",
			ParametersSchema: `{
	"type": "object",
	"properties": {
		"action": {"type": "string", "enum": ["create", "list", "get", "rename", "update", "delete", "move_items"]},
		"name": {"type": "string"},
		"color": {"type": "string"},
		"emoji": {"type": "string"},
		"project_id": {"type": "integer"},
		"target_project_id": {"type": ["integer", "null"], "description": "null clears the project assignment"},
		"confirmed": {"type": "boolean", "default": false},
		"confirmation_token": {"type": "string"}
	},
	"required": ["action"]
}`,
		},
		{
			Name:        "save_item",
			Description: "Create a new item (task, idea, note, resource, contact, event). Use when the user asks to add or create a new record.",
			ParametersSchema: `{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"content": {"type": "string"},
		"type": {"type": "string", "enum": ["task", "idea", "note", "resource", "contact", "event"]},
		"due_at": {"type": "string"},
		"due_at_raw": {"type": "string", "description": "Original phrasing, e.g. 'tomorrow at 3pm'"},
		"priority": {"type": "string", "enum": ["high", "medium", "low"]},
		"project_id": {"type": "integer"},
		"tags": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["title", "type"]
}`,
		},
	}
}
