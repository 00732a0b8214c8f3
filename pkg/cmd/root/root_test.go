package root

import (
	"slices"
	"testing"
)

func TestRootRegistersCommands(t *testing.T) {
	cmd := NewCmdRoot()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"cards", "find", "init", "state", "views", "workspace"} {
		if !slices.Contains(names, want) {
			t.Fatalf("expected %q subcommand, got %v", want, names)
		}
	}

	for _, flag := range []string{"home", "workspace", "log-level"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Fatalf("expected persistent flag --%s", flag)
		}
	}
	if cmd.RunE == nil {
		t.Fatal("expected bare ancards to open the card view")
	}
}
