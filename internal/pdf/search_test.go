package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSearch_SearchDirectory(t *testing.T) {
	tempDir := t.TempDir()

	writeTestPDF(t, tempDir, "resume_jordan.pdf", []testPage{{text: "resume"}}, nil)
	writeTestPDF(t, tempDir, "Q3_report_2024.pdf", []testPage{{text: "report"}}, nil)

	subDir := filepath.Join(tempDir, "archive")
	if err := os.Mkdir(subDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTestPDF(t, subDir, "old_resume.pdf", []testPage{{text: "old"}}, nil)

	// Noise that must never appear in results.
	if err := os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("text"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "empty.pdf"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	hiddenDir := filepath.Join(tempDir, ".cache")
	if err := os.Mkdir(hiddenDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTestPDF(t, hiddenDir, "cached.pdf", []testPage{{text: "hidden"}}, nil)

	search := NewSearch(10 * 1024 * 1024)

	tests := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{
			name:      "no query lists every valid PDF",
			wantNames: []string{"resume_jordan.pdf", "Q3_report_2024.pdf", "old_resume.pdf"},
		},
		{
			name:      "substring query",
			query:     "resume",
			wantNames: []string{"resume_jordan.pdf", "old_resume.pdf"},
		},
		{
			name:      "word query across separators",
			query:     "report 2024",
			wantNames: []string{"Q3_report_2024.pdf"},
		},
		{
			name:      "no match",
			query:     "invoice",
			wantNames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := search.SearchDirectory(SearchDirectoryRequest{
				Directory: tempDir,
				Query:     tt.query,
			})
			if err != nil {
				t.Fatalf("SearchDirectory returned error: %v", err)
			}
			if result.TotalCount != len(tt.wantNames) {
				t.Fatalf("TotalCount = %d, want %d (files: %+v)",
					result.TotalCount, len(tt.wantNames), result.Files)
			}

			found := make(map[string]bool, len(result.Files))
			for _, f := range result.Files {
				found[f.Name] = true
			}
			for _, name := range tt.wantNames {
				if !found[name] {
					t.Errorf("expected %s in results", name)
				}
			}
		})
	}
}

func TestSearch_SearchDirectoryErrors(t *testing.T) {
	search := NewSearch(10 * 1024 * 1024)

	if _, err := search.SearchDirectory(SearchDirectoryRequest{}); err == nil {
		t.Error("expected error for empty directory")
	}

	if _, err := search.SearchDirectory(SearchDirectoryRequest{
		Directory: filepath.Join(t.TempDir(), "missing"),
	}); err == nil {
		t.Error("expected error for nonexistent directory")
	}
}

func TestSearch_FindPDFsInDirectory(t *testing.T) {
	tempDir := t.TempDir()
	writeTestPDF(t, tempDir, "one.pdf", []testPage{{text: "1"}}, nil)
	writeTestPDF(t, tempDir, "two.pdf", []testPage{{text: "2"}}, nil)

	search := NewSearch(10 * 1024 * 1024)
	files, err := search.FindPDFsInDirectory(tempDir)
	if err != nil {
		t.Fatalf("FindPDFsInDirectory returned error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files, got %d", len(files))
	}
}

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		filename string
		query    string
		want     bool
	}{
		{"resume_jordan.pdf", "resume", true},
		{"resume_jordan.pdf", "jordan", true},
		{"Q3_report_2024.pdf", "report 2024", true},
		{"Q3_report_2024.pdf", "q3", true},
		{"Q3_report_2024.pdf", "invoice", false},
		{"My Resume (Final).pdf", "final", true},
	}

	for _, tt := range tests {
		if got := matchesQuery(tt.filename, tt.query); got != tt.want {
			t.Errorf("matchesQuery(%q, %q) = %v, want %v", tt.filename, tt.query, got, tt.want)
		}
	}
}
