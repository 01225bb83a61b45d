// Package testutil holds helpers shared by tests that may talk to the live
// Comic Vine API.
package testutil

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	loadOnce sync.Once
	loadErr  error
)

// LoadDotEnv loads variables from the nearest ".env" file, searching from the
// working directory upwards. Existing environment variables win. A missing
// file is not an error.
func LoadDotEnv() error {
	loadOnce.Do(func() {
		path, err := findUpwards(".env")
		if err != nil {
			return
		}
		loadErr = loadEnvFile(path)
	})
	return loadErr
}

// LiveAPIKey returns COMIC_VINE_API_KEY (after loading .env) or skips t.
func LiveAPIKey(t testing.TB) string {
	t.Helper()
	if testing.Short() {
		t.Skip("live Comic Vine test skipped in -short mode")
	}
	if err := LoadDotEnv(); err != nil {
		t.Fatalf("load .env: %v", err)
	}
	key := strings.TrimSpace(os.Getenv("COMIC_VINE_API_KEY"))
	if key == "" {
		t.Skip("COMIC_VINE_API_KEY not set")
	}
	return key
}

func findUpwards(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("not found")
		}
		dir = parent
	}
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, val, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return err
		}
	}
	return sc.Err()
}

// parseLine splits KEY=VALUE on the first '='. Comments, blank lines and an
// "export " prefix are handled; one pair of surrounding quotes is stripped.
func parseLine(line string) (key, val string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, val, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	val = strings.TrimSpace(val)
	if len(val) >= 2 {
		if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
			val = val[1 : len(val)-1]
		}
	}
	return key, val, true
}
