// cmd/preflight/main.go
package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	target := strings.TrimSpace(os.Getenv("TARGET_URL"))
	scenarioName := strings.TrimSpace(os.Getenv("SCENARIO"))
	vus := strings.TrimSpace(os.Getenv("VUS"))
	apiAddr := strings.TrimSpace(os.Getenv("API_ADDR"))
	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	db := strings.TrimSpace(os.Getenv("RESULTS_DB"))
	webhook := strings.TrimSpace(os.Getenv("SLACK_WEBHOOK"))

	if target == "" {
		warn("TARGET_URL empty — the scenario's built-in endpoint will be hit.")
	} else if u, err := url.ParseRequestURI(target); err != nil || u.Host == "" {
		fail("TARGET_URL is not a valid absolute URL: " + target)
	} else {
		ok("TARGET_URL=" + target)
	}

	if scenarioName != "" && scenarioName != "books" && scenarioName != "books-local" {
		fail("SCENARIO must be books or books-local, got " + scenarioName)
	}

	if vus != "" {
		if n, err := strconv.Atoi(vus); err != nil || n < 1 {
			fail("VUS must be a positive integer, got " + vus)
		} else if n > 10000 {
			warn("VUS > 10000 — make sure the target owner expects this.")
		} else {
			ok("VUS=" + vus)
		}
	}

	if apiAddr != "" && admin == "" {
		warn("API_ADDR set but ADMIN_API_KEYS empty — anyone reaching the API can stop the run.")
	}
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": os.Getenv("PUBLIC_API_KEYS")} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	if db == "" {
		warn("RESULTS_DB empty — run history kept in memory only, lost on exit.")
	} else {
		ok("RESULTS_DB=" + db)
	}

	if webhook == "" {
		warn("SLACK_WEBHOOK empty — failed runs won't be announced.")
	}

	ok("preflight passed")
}
