package concerts_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"boxoffice/db"
)

func TestMain(m *testing.M) {
	code := run(m)
	os.Exit(code)
}

func run(m *testing.M) int {
	if os.Getenv("POSTGRES_URL") == "" {
		fmt.Println("> Setup postgres container")
		container, url := db.StartPostgresContainer()
		defer container.Terminate(context.Background())
		os.Setenv("POSTGRES_URL", url)
	}

	return m.Run()
}
