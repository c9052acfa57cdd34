package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/marquee/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal text",
			input:    "Movie 1",
			expected: "Movie 1",
		},
		{
			name:     "text with colon",
			input:    "Title: Subtitle",
			expected: "Title - Subtitle",
		},
		{
			name:     "text with slash",
			input:    "Title/Subtitle",
			expected: "Title-Subtitle",
		},
		{
			name:     "text with backslash",
			input:    "Title\\Subtitle",
			expected: "Title-Subtitle",
		},
		{
			name:     "windows reserved characters",
			input:    `What? "Really" <now>*|`,
			expected: "What 'Really' now-",
		},
		{
			name:     "surrounding whitespace",
			input:    "  Padded  ",
			expected: "Padded",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFilename(tc.input))
		})
	}
}

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("present.txt", []byte("x"))

	assert.True(t, FileExists(env.Path("present.txt")))
	assert.False(t, FileExists(env.Path("missing.txt")))
	// Directories do not count as files.
	assert.False(t, FileExists(env.RootDir()))
}

func TestWriteFileWithOverwrite(t *testing.T) {
	tempDir := t.TempDir()

	testCases := []struct {
		name           string
		filePath       string
		data           []byte
		overwrite      bool
		existingData   []byte
		expectedResult bool
		expectedData   []byte
	}{
		{
			name:           "new file in new directory",
			filePath:       filepath.Join(tempDir, "nested", "new-file.txt"),
			data:           []byte("new content"),
			expectedResult: true,
			expectedData:   []byte("new content"),
		},
		{
			name:           "existing file with overwrite",
			filePath:       filepath.Join(tempDir, "existing-overwrite.txt"),
			data:           []byte("new content"),
			overwrite:      true,
			existingData:   []byte("old content"),
			expectedResult: true,
			expectedData:   []byte("new content"),
		},
		{
			name:           "existing file without overwrite",
			filePath:       filepath.Join(tempDir, "existing-no-overwrite.txt"),
			data:           []byte("new content"),
			existingData:   []byte("old content"),
			expectedResult: false,
			expectedData:   []byte("old content"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.existingData != nil {
				require.NoError(t, os.WriteFile(tc.filePath, tc.existingData, 0644))
			}

			result, err := WriteFileWithOverwrite(tc.filePath, tc.data, 0644, tc.overwrite)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedResult, result)

			actualData, err := os.ReadFile(tc.filePath)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedData, actualData)
		})
	}
}

type jsonRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestWriteJSONFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("out", "feed.json")

	written, err := WriteJSONFile([]jsonRecord{{ID: 1, Name: "Comedy"}}, path, false)
	require.NoError(t, err)
	assert.True(t, written)

	var got []jsonRecord
	require.NoError(t, json.Unmarshal([]byte(env.ReadFileString("out/feed.json")), &got))
	assert.Equal(t, []jsonRecord{{ID: 1, Name: "Comedy"}}, got)

	written, err = WriteJSONFile([]jsonRecord{{ID: 2}}, path, false)
	require.NoError(t, err)
	assert.False(t, written, "existing file must be kept without overwrite")

	written, err = WriteJSONFile([]jsonRecord{{ID: 2, Name: "Drama"}}, path, true)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Contains(t, env.ReadFileString("out/feed.json"), "Drama")
}

func TestWriteJSONFile_InvalidData(t *testing.T) {
	env := testutil.NewTestEnv(t)

	written, err := WriteJSONFile(map[string]any{"bad": make(chan int)}, env.Path("bad.json"), false)
	require.Error(t, err)
	assert.False(t, written)
	assert.False(t, env.FileExists("bad.json"))
}
