package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggingFile(t *testing.T) {
	dir := t.TempDir()
	day := time.Now().Format("2006-01-02")

	file, err := GetLoggingFile(filepath.Join(dir, "relayadmin.txt"))
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, filepath.Join(dir, "relayadmin-"+day+".txt"), file.Name())

	noExt, err := GetLoggingFile(filepath.Join(dir, "relayadmin"))
	require.NoError(t, err)
	defer noExt.Close()
	assert.Equal(t, filepath.Join(dir, "relayadmin-"+day+".log"), noExt.Name())
}

func TestLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger := Logger(filepath.Join(dir, "admin.log"))
	logger.Info("banned a pubkey")

	content, err := os.ReadFile(filepath.Join(dir, "admin-"+time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "banned a pubkey")
}
