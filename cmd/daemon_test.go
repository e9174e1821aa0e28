package cmd

import "testing"

func TestDaemonCommandWiring(t *testing.T) {
	interval := daemonCmd.Flags().Lookup("interval")
	if interval == nil {
		t.Fatal("daemon command is missing the interval flag")
	}
	if interval.DefValue != "30s" {
		t.Fatalf("interval default = %s, want 30s", interval.DefValue)
	}
	if daemonCmd.Flags().Lookup("addr") == nil {
		t.Fatal("daemon command is missing the addr flag")
	}

	var hasStatus bool
	for _, sub := range daemonCmd.Commands() {
		if sub.Name() == "status" {
			hasStatus = true
		}
	}
	if !hasStatus {
		t.Fatal("daemon command is missing the status subcommand")
	}
	if daemonCmd.RunE == nil {
		t.Fatal("daemonCmd.RunE not set")
	}
}
