package log

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestUndoDownloadOperation(t *testing.T) {
	tempDir := t.TempDir()
	trailerPath := filepath.Join(tempDir, "Heat (1995) - trailer #1 -trailer.mp4")

	err := os.WriteFile(trailerPath, []byte("video"), 0644)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	op := OperationLog{
		ID:         "test_op",
		Timestamp:  time.Now(),
		Type:       OpDownload,
		SourcePath: "https://www.youtube.com/watch?v=abc",
		DestPath:   trailerPath,
		Success:    true,
	}

	result := UndoOperation(op)
	if !result.Success {
		t.Fatalf("UndoOperation failed: %v", result.Error)
	}

	if _, err := os.Stat(trailerPath); err == nil {
		t.Error("Downloaded file should not exist after undo")
	}
}

func TestUndoDownloadAlreadyRemoved(t *testing.T) {
	op := OperationLog{
		ID:         "test_op",
		Type:       OpDownload,
		SourcePath: "https://www.youtube.com/watch?v=abc",
		DestPath:   filepath.Join(t.TempDir(), "missing.mp4"),
		Success:    true,
	}

	result := UndoOperation(op)
	if !result.Success {
		t.Errorf("Undo of already removed download should succeed, got %v", result.Error)
	}
}

func TestUndoDownloadMissingDest(t *testing.T) {
	op := OperationLog{
		ID:         "test_op",
		Type:       OpDownload,
		SourcePath: "https://www.youtube.com/watch?v=abc",
		Success:    true,
	}

	result := UndoOperation(op)
	if result.Success {
		t.Error("Undo without destination path should fail")
	}
	if result.Error == nil {
		t.Error("Undo without destination path should return error")
	}
}

func TestUndoRenameOperation(t *testing.T) {
	tempDir := t.TempDir()

	oldPath := filepath.Join(tempDir, "trailer.webm")
	newPath := filepath.Join(tempDir, "trailer.mp4")

	err := os.WriteFile(oldPath, []byte("test content"), 0644)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	err = os.Rename(oldPath, newPath)
	if err != nil {
		t.Fatalf("Failed to rename test file: %v", err)
	}

	op := OperationLog{
		ID:         "test_op",
		Timestamp:  time.Now(),
		Type:       OpRename,
		SourcePath: oldPath,
		DestPath:   newPath,
		Success:    true,
	}

	result := UndoOperation(op)
	if !result.Success {
		t.Fatalf("UndoOperation failed: %v", result.Error)
	}

	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		t.Error("Original file should exist after undo")
	}

	if _, err := os.Stat(newPath); err == nil {
		t.Error("Renamed file should not exist after undo")
	}
}

func TestUndoRenameConflict(t *testing.T) {
	tempDir := t.TempDir()

	oldPath := filepath.Join(tempDir, "trailer.webm")
	newPath := filepath.Join(tempDir, "trailer.mp4")

	// Both paths exist, so undoing would overwrite
	if err := os.WriteFile(oldPath, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newPath, []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}

	op := OperationLog{
		ID:         "test_op",
		Type:       OpRename,
		SourcePath: oldPath,
		DestPath:   newPath,
		Success:    true,
	}

	result := UndoOperation(op)
	if result.Success {
		t.Error("Undo should fail when the original path already exists")
	}
}

func TestUndoCreateDirOperation(t *testing.T) {
	tempDir := t.TempDir()
	dirPath := filepath.Join(tempDir, "trailers")

	err := os.Mkdir(dirPath, 0755)
	if err != nil {
		t.Fatalf("Failed to create test directory: %v", err)
	}

	op := OperationLog{
		ID:        "test_op",
		Timestamp: time.Now(),
		Type:      OpCreateDir,
		DestPath:  dirPath,
		Success:   true,
	}

	result := UndoOperation(op)
	if !result.Success {
		t.Fatalf("UndoOperation failed: %v", result.Error)
	}

	if _, err := os.Stat(dirPath); err == nil {
		t.Error("Directory should not exist after undo")
	}
}

func TestUndoCreateDirWithContent(t *testing.T) {
	tempDir := t.TempDir()
	dirPath := filepath.Join(tempDir, "trailers")

	err := os.Mkdir(dirPath, 0755)
	if err != nil {
		t.Fatalf("Failed to create test directory: %v", err)
	}

	filePath := filepath.Join(dirPath, "trailer #1.mp4")
	err = os.WriteFile(filePath, []byte("content"), 0644)
	if err != nil {
		t.Fatalf("Failed to create file in directory: %v", err)
	}

	op := OperationLog{
		ID:        "test_op",
		Timestamp: time.Now(),
		Type:      OpCreateDir,
		DestPath:  dirPath,
		Success:   true,
	}

	// Should fail because directory is not empty
	result := UndoOperation(op)
	if result.Success {
		t.Error("Undo should fail for non-empty directory")
	}

	if result.Error == nil {
		t.Error("Undo should return error for non-empty directory")
	}
}

func TestUndoUnknownOperation(t *testing.T) {
	op := OperationLog{
		ID:   "test_op",
		Type: OperationType("teleport"),
	}

	result := UndoOperation(op)
	if result.Success {
		t.Error("Undo of unknown operation type should fail")
	}
}

func TestUndoSession(t *testing.T) {
	tempDir := t.TempDir()

	// Simulate a shows run: trailers directory created, then two
	// trailers downloaded into it.
	trailersDir := filepath.Join(tempDir, "Breaking Bad", "trailers")
	if err := os.MkdirAll(trailersDir, 0755); err != nil {
		t.Fatalf("Failed to create trailers directory: %v", err)
	}

	trailer1 := filepath.Join(trailersDir, "trailer #1.mp4")
	trailer2 := filepath.Join(trailersDir, "trailer #2.mp4")
	for _, p := range []string{trailer1, trailer2} {
		if err := os.WriteFile(p, []byte("video"), 0644); err != nil {
			t.Fatalf("Failed to create trailer file: %v", err)
		}
	}

	session := &LogSession{
		Metadata: SessionMetadata{
			CommandArgs:   []string{"shows"},
			WorkingDir:    tempDir,
			Timestamp:     time.Now(),
			SessionID:     "test_session",
			TotalOps:      3,
			SuccessfulOps: 3,
			FailedOps:     0,
		},
		Operations: []OperationLog{
			{
				ID:       "test_session_0",
				Type:     OpCreateDir,
				DestPath: trailersDir,
				Success:  true,
			},
			{
				ID:         "test_session_1",
				Type:       OpDownload,
				SourcePath: "https://www.youtube.com/watch?v=a",
				DestPath:   trailer1,
				Success:    true,
			},
			{
				ID:         "test_session_2",
				Type:       OpDownload,
				SourcePath: "https://www.youtube.com/watch?v=b",
				DestPath:   trailer2,
				Success:    true,
			},
		},
	}

	successful, failed, errors := UndoSession(session)

	// Reverse order empties the directory before removing it
	if successful != 3 {
		t.Errorf("Expected 3 successful undos, got %d", successful)
	}
	if failed != 0 {
		t.Errorf("Expected 0 failed undos, got %d (errors: %v)", failed, errors)
	}

	if _, err := os.Stat(trailersDir); err == nil {
		t.Error("Trailers directory should not exist after undo")
	}
}

func TestUndoSessionSkipsFailedOperations(t *testing.T) {
	tempDir := t.TempDir()
	existing := filepath.Join(tempDir, "trailer #1.mp4")
	if err := os.WriteFile(existing, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	session := &LogSession{
		Metadata: SessionMetadata{SessionID: "test_session"},
		Operations: []OperationLog{
			{
				ID:         "test_session_0",
				Type:       OpDownload,
				SourcePath: "https://www.youtube.com/watch?v=a",
				DestPath:   existing,
				Success:    true,
			},
			{
				ID:         "test_session_1",
				Type:       OpDownload,
				SourcePath: "https://www.youtube.com/watch?v=b",
				DestPath:   filepath.Join(tempDir, "never-downloaded.mp4"),
				Success:    false,
				Error:      "yt-dlp failed",
			},
		},
	}

	successful, failed, _ := UndoSession(session)
	if successful != 1 {
		t.Errorf("Expected 1 successful undo, got %d", successful)
	}
	if failed != 0 {
		t.Errorf("Expected failed operations to be skipped, got %d failures", failed)
	}
}

func TestFindLatestSession(t *testing.T) {
	resetSessionState(t)
	dir := t.TempDir()
	SetLogDir(dir)

	for i, id := range []string{"older", "newer"} {
		session := &LogSession{
			Metadata: SessionMetadata{
				CommandArgs: []string{"movies"},
				SessionID:   id,
				Timestamp:   time.Now(),
			},
		}
		path := filepath.Join(dir, fmt.Sprintf("2026-01-0%d_120000.000.json", i+1))
		if err := WriteSessionToPath(session, path); err != nil {
			t.Fatalf("write session %s: %v", id, err)
		}
	}

	session, path, err := FindLatestSession()
	if err != nil {
		t.Fatalf("FindLatestSession() failed: %v", err)
	}
	if session.Metadata.SessionID != "newer" {
		t.Errorf("FindLatestSession() = %s, want newer", session.Metadata.SessionID)
	}
	if path == "" {
		t.Error("FindLatestSession() should return the file path")
	}
}

func TestFindLatestSessionEmpty(t *testing.T) {
	resetSessionState(t)
	SetLogDir(t.TempDir())

	if _, _, err := FindLatestSession(); err == nil {
		t.Error("FindLatestSession() with no sessions should fail")
	}
}

func TestGetSessionSummaries(t *testing.T) {
	resetSessionState(t)
	dir := t.TempDir()
	SetLogDir(dir)

	session := &LogSession{
		Metadata: SessionMetadata{
			CommandArgs: []string{"shows"},
			SessionID:   "s1",
			Timestamp:   time.Now().Add(-2 * time.Minute),
		},
	}
	if err := WriteSessionToPath(session, filepath.Join(dir, "2026-01-01_120000.000.json")); err != nil {
		t.Fatal(err)
	}

	summaries, err := GetSessionSummaries()
	if err != nil {
		t.Fatalf("GetSessionSummaries() failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].Icon != "📺" {
		t.Errorf("summary icon = %q, want 📺", summaries[0].Icon)
	}
	if summaries[0].RelativeTime != "2 minutes ago" {
		t.Errorf("summary relative time = %q, want %q", summaries[0].RelativeTime, "2 minutes ago")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		time     time.Time
		expected string
	}{
		{
			name:     "just now",
			time:     now.Add(-30 * time.Second),
			expected: "just now",
		},
		{
			name:     "1 minute ago",
			time:     now.Add(-1 * time.Minute),
			expected: "1 minute ago",
		},
		{
			name:     "5 minutes ago",
			time:     now.Add(-5 * time.Minute),
			expected: "5 minutes ago",
		},
		{
			name:     "1 hour ago",
			time:     now.Add(-1 * time.Hour),
			expected: "1 hour ago",
		},
		{
			name:     "3 hours ago",
			time:     now.Add(-3 * time.Hour),
			expected: "3 hours ago",
		},
		{
			name:     "2 days ago",
			time:     now.Add(-48 * time.Hour),
			expected: "2 days ago",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatRelativeTime(tc.time); got != tc.expected {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tc.expected)
			}
		})
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got := formatRelativeTime(old); got != old.Format("Jan 2, 2006") {
		t.Errorf("formatRelativeTime(old) = %q, want date format", got)
	}
}

func TestGetCommandIcon(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"movies"}, "🎬"},
		{[]string{"shows", "--report-only"}, "📺"},
		{[]string{"fixext"}, "🔧"},
		{[]string{"other"}, "📝"},
		{nil, "❓"},
	}
	for _, tc := range tests {
		if got := getCommandIcon(tc.args); got != tc.want {
			t.Errorf("getCommandIcon(%v) = %q, want %q", tc.args, got, tc.want)
		}
	}
}
