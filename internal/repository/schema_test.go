package repository

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/testutil"
)

var wordTypeCheck = regexp.MustCompile(`word_type IN \(([^)]*)\)`)

func TestWordTypeCheckMatchesModel(t *testing.T) {
	t.Parallel()

	root, err := testutil.ProjectRoot()
	if err != nil {
		t.Fatalf("ProjectRoot failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "migrations", "000002_words.up.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	m := wordTypeCheck.FindSubmatch(data)
	if m == nil {
		t.Fatal("words migration has no word_type CHECK constraint")
	}

	var got []string
	for _, part := range strings.Split(string(m[1]), ",") {
		got = append(got, strings.Trim(strings.TrimSpace(part), "'"))
	}

	want := slices.Clone(model.ValidWordTypes)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("CHECK allows %v, model allows %v", got, want)
	}
}
