package main

import (
	"reflect"
	"testing"
)

func TestRootCommandDefaultsToServe(t *testing.T) {
	if rootCmd.RunE == nil {
		t.Fatal("root command has no RunE; plain invocation would only print help")
	}
	if reflect.ValueOf(rootCmd.RunE).Pointer() != reflect.ValueOf(serveCmd.RunE).Pointer() {
		t.Fatal("root command should run the same function as serve")
	}
	if rootCmd.Flags().Lookup("skip-migrate") == nil {
		t.Fatal("root command should accept --skip-migrate like serve")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "migrate": false, "create-admin": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
}
