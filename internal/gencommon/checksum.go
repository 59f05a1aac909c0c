package gencommon

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ComputeFileChecksum computes SHA256 hash of a file
func ComputeFileChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// ChecksumBytes computes SHA256 hash of in-memory content
func ChecksumBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// WriteFileIfChanged writes content to path unless an identical file is
// already there, so regeneration leaves untouched outputs alone.
// Returns true when the file was written.
func WriteFileIfChanged(path string, content []byte) (bool, error) {
	if existing, err := ComputeFileChecksum(path); err == nil {
		if existing == ChecksumBytes(content) {
			return false, nil
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, err
	}
	return true, nil
}
