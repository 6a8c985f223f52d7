package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutation_Validate(t *testing.T) {
	pid := WidgetID("parent")
	pos := 0
	cfg := NewWidgetConfig("text")

	cases := []struct {
		name    string
		m       Mutation
		wantErr bool
	}{
		{"add_root with type", Mutation{Op: OpAddRoot, WidgetType: "text"}, false},
		{"add_root with config", Mutation{Op: OpAddRoot, Config: &cfg}, false},
		{"add_root without source", Mutation{Op: OpAddRoot}, true},
		{"insert_root needs position", Mutation{Op: OpInsertRoot, WidgetType: "text"}, true},
		{"insert_root complete", Mutation{Op: OpInsertRoot, WidgetType: "text", Position: &pos}, false},
		{"add_child needs parent", Mutation{Op: OpAddChild, WidgetType: "text"}, true},
		{"add_child complete", Mutation{Op: OpAddChild, ParentID: &pid, WidgetType: "text"}, false},
		{"insert_child complete", Mutation{Op: OpInsertChild, ParentID: &pid, WidgetType: "text", Position: &pos}, false},
		{"remove needs target", Mutation{Op: OpRemove}, true},
		{"remove complete", Mutation{Op: OpRemove, WidgetID: "a"}, false},
		{"move_up complete", Mutation{Op: OpMoveUp, WidgetID: "a"}, false},
		{"update_config needs config", Mutation{Op: OpUpdateConfig, WidgetID: "a"}, true},
		{"update_config complete", Mutation{Op: OpUpdateConfig, WidgetID: "a", Config: &cfg}, false},
		{"set_theme needs theme", Mutation{Op: OpSetTheme}, true},
		{"set_theme complete", Mutation{Op: OpSetTheme, Theme: &ThemeConfig{Name: "dark"}}, false},
		{"missing op", Mutation{}, true},
		{"unknown op", Mutation{Op: "teleport"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.m.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOperation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
