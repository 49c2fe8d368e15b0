package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{ScanStarted, "ScanStarted"},
		{ScanComplete, "ScanComplete"},
		{DirCreated, "DirCreated"},
		{Linked, "Linked"},
		{Relinked, "Relinked"},
		{Unchanged, "Unchanged"},
		{Replaced, "Replaced"},
		{Skipped, "Skipped"},
		{DeleteFile, "DeleteFile"},
		{DeleteDir, "DeleteDir"},
		{Type(0), "Unknown"},
		{Type(999), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}
