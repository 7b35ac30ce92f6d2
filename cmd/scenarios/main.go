package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"myregistry/scenario"
)

const (
	defaultRegistry = "localhost:5010"
	defaultAdmin    = "http://localhost:8080"
)

func main() {
	list := flag.Bool("list", false, "list available scenarios and exit")
	scenarioName := flag.String("scenario", "", "scenario to run (or pass as positional arg)")
	registryAddr := flag.String("registry", "", "registry gRPC address (default: localhost:5010 or REGISTRY_ADDR env)")
	adminURL := flag.String("admin", "", "registry admin base URL (default: http://localhost:8080 or ADMIN_URL env)")
	interval := flag.Duration("heartbeat-interval", time.Second, "heartbeat interval the registry runs with")
	flag.Parse()

	if *registryAddr == "" {
		*registryAddr = os.Getenv("REGISTRY_ADDR")
	}
	if *registryAddr == "" {
		*registryAddr = defaultRegistry
	}
	if *adminURL == "" {
		*adminURL = os.Getenv("ADMIN_URL")
	}
	if *adminURL == "" {
		*adminURL = defaultAdmin
	}

	if *list {
		for _, name := range scenario.Names() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	name := *scenarioName
	if name == "" && flag.NArg() > 0 {
		name = flag.Arg(0)
	}
	if name == "" {
		fmt.Fprintln(os.Stderr, "usage: scenarios [--list] [--scenario=NAME] [--registry=ADDR] [--admin=URL] [--heartbeat-interval=D] [scenario_name]")
		fmt.Fprintln(os.Stderr, "  use --list to list scenarios")
		os.Exit(2)
	}

	cfg := &scenario.Config{
		RegistryAddr:      *registryAddr,
		AdminURL:          strings.TrimSuffix(*adminURL, "/"),
		HeartbeatInterval: *interval,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	err := scenario.Run(name, ctx, cfg)

	fmt.Println("\n=== Scenario Result ===")
	fmt.Printf("Scenario: %s\n", name)
	if err != nil {
		fmt.Printf("Status: FAILED\n")
		fmt.Printf("Error: %v\n", err)
		fmt.Println("=====================")
		var unknown *scenario.UnknownScenarioError
		if errors.As(err, &unknown) {
			fmt.Fprintf(os.Stderr, "\navailable scenarios: %s\n", strings.Join(scenario.Names(), ", "))
			os.Exit(2)
		}
		os.Exit(1)
	}

	fmt.Printf("Status: PASSED\n")
	fmt.Println("=====================")
}
